// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/protobridge/protobridge/internal/errors"
)

// Decoder is a token-based JSON decoder.
type Decoder struct {
	orig []byte // full input, kept for error positions
	in   []byte // unread input

	// lastType is the type of the most recently read token.
	lastType Type
	// openStack holds ObjectOpen and ArrayOpen for every unclosed container.
	openStack []Type

	peeked  Value
	peekErr error
	hasPeek bool
}

// NewDecoder returns a Decoder to read the given []byte.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{orig: b, in: b}
}

// Peek looks ahead and returns the next token and error without advancing a
// read.
func (d *Decoder) Peek() (Value, error) {
	if !d.hasPeek {
		d.peeked, d.peekErr = d.read()
		d.hasPeek = true
	}
	return d.peeked, d.peekErr
}

// Read returns the next JSON token. It returns an error if the input is not
// valid JSON. Once an error has been returned, every subsequent call returns
// the same error.
func (d *Decoder) Read() (Value, error) {
	if d.hasPeek {
		if d.peekErr == nil {
			d.hasPeek = false
		}
		return d.peeked, d.peekErr
	}
	v, err := d.read()
	if err != nil {
		d.peeked, d.peekErr, d.hasPeek = v, err, true
	}
	return v, err
}

func (d *Decoder) read() (Value, error) {
	d.consume(0)
	if len(d.in) == 0 {
		if len(d.openStack) > 0 || d.lastType&(Name|comma) != 0 {
			return Value{}, d.unexpectedEOF()
		}
		return Value{typ: EOF}, nil
	}
	if len(d.openStack) == 0 && d.lastType&valueEnd != 0 {
		return Value{}, d.newSyntaxError("unexpected %q after top-level value", d.in[0])
	}

	c := d.in[0]
	switch d.top() {
	case ObjectOpen:
		switch {
		case d.lastType == ObjectOpen && c == '}':
			return d.closeContainer(ObjectClose), nil
		case d.lastType&(ObjectOpen|comma) != 0:
			return d.readName()
		case d.lastType&valueEnd != 0:
			switch c {
			case ',':
				d.consume(1)
				d.lastType = comma
				return d.read()
			case '}':
				return d.closeContainer(ObjectClose), nil
			}
			return Value{}, d.newSyntaxError("invalid character %q after object member, expected ',' or '}'", c)
		}
	case ArrayOpen:
		switch {
		case d.lastType == ArrayOpen && c == ']':
			return d.closeContainer(ArrayClose), nil
		case d.lastType&valueEnd != 0:
			switch c {
			case ',':
				d.consume(1)
				d.lastType = comma
				return d.read()
			case ']':
				return d.closeContainer(ArrayClose), nil
			}
			return Value{}, d.newSyntaxError("invalid character %q after array element, expected ',' or ']'", c)
		}
	}
	return d.readValue()
}

func (d *Decoder) top() Type {
	if n := len(d.openStack); n > 0 {
		return d.openStack[n-1]
	}
	return 0
}

func (d *Decoder) closeContainer(t Type) Value {
	v := Value{typ: t, raw: d.in[:1]}
	d.openStack = d.openStack[:len(d.openStack)-1]
	d.consume(1)
	d.lastType = t
	return v
}

func (d *Decoder) readName() (Value, error) {
	if d.in[0] != '"' {
		return Value{}, d.newSyntaxError("invalid character %q, expected object member name", d.in[0])
	}
	s, n, err := d.parseString(d.in)
	if err != nil {
		return Value{}, err
	}
	v := Value{typ: Name, raw: d.in[:n], str: s}
	d.consume(n)
	if len(d.in) == 0 {
		return Value{}, d.unexpectedEOF()
	}
	if d.in[0] != ':' {
		return Value{}, d.newSyntaxError("invalid character %q after object member name, expected ':'", d.in[0])
	}
	d.consume(1)
	d.lastType = Name
	return v, nil
}

func (d *Decoder) readValue() (Value, error) {
	var v Value
	switch c := d.in[0]; c {
	case 'n', 't', 'f':
		n := matchLiteral(d.in)
		if n == 0 {
			return Value{}, d.newSyntaxError("invalid %q as literal", errToken(d.in))
		}
		v = Value{typ: Bool, raw: d.in[:n], b: c == 't'}
		if c == 'n' {
			v.typ = Null
		}
		d.consume(n)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := scanNumber(d.in)
		if n == 0 {
			return Value{}, d.newSyntaxError("invalid %q as number", errToken(d.in))
		}
		v = Value{typ: Number, raw: d.in[:n]}
		d.consume(n)
	case '"':
		s, n, err := d.parseString(d.in)
		if err != nil {
			return Value{}, err
		}
		v = Value{typ: String, raw: d.in[:n], str: s}
		d.consume(n)
	case '{':
		v = Value{typ: ObjectOpen, raw: d.in[:1]}
		d.openStack = append(d.openStack, ObjectOpen)
		d.consume(1)
	case '[':
		v = Value{typ: ArrayOpen, raw: d.in[:1]}
		d.openStack = append(d.openStack, ArrayOpen)
		d.consume(1)
	default:
		return Value{}, d.newSyntaxError("invalid %q as value", errToken(d.in))
	}
	d.lastType = v.typ
	return v, nil
}

// consume consumes n bytes of input and any subsequent whitespace.
func (d *Decoder) consume(n int) {
	d.in = d.in[n:]
	for len(d.in) > 0 {
		switch d.in[0] {
		case ' ', '\n', '\r', '\t':
			d.in = d.in[1:]
		default:
			return
		}
	}
}

// position returns the 1-based line and column of the read point.
func (d *Decoder) position() (line, column int) {
	b := d.orig[:len(d.orig)-len(d.in)]
	line = bytes.Count(b, []byte("\n")) + 1
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	column = utf8.RuneCount(b) + 1 // ignore multi-rune characters
	return line, column
}

func (d *Decoder) newSyntaxError(f string, x ...interface{}) error {
	line, column := d.position()
	return errors.New("syntax error (line %d:%d): "+f, append([]interface{}{line, column}, x...)...)
}

func (d *Decoder) unexpectedEOF() error {
	return errors.New("syntax error: %v", io.ErrUnexpectedEOF)
}

func matchLiteral(b []byte) int {
	for _, lit := range [...]string{"null", "true", "false"} {
		if bytes.HasPrefix(b, []byte(lit)) {
			if len(b) > len(lit) && isNotDelim(b[len(lit)]) {
				return 0
			}
			return len(lit)
		}
	}
	return 0
}

// errToken returns the sequence that looks like a non-delimiter at the start
// of b, for error reporting.
func errToken(b []byte) []byte {
	n := 0
	for n < len(b) && n < 32 && isNotDelim(b[n]) {
		n++
	}
	if n == 0 && len(b) > 0 {
		_, n = utf8.DecodeRune(b)
	}
	return b[:n]
}

// isNotDelim reports whether c can be part of a literal or number.
func isNotDelim(c byte) bool {
	return c == '-' || c == '+' || c == '.' || c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// Value is a single JSON token read by the Decoder.
type Value struct {
	typ Type
	raw []byte // token bytes as they appear in the input
	str string // decoded content of a String or Name
	b   bool
}

// Type returns the type of the token.
func (v Value) Type() Type { return v.typ }

// Raw returns the token text as it appears in the input.
func (v Value) Raw() string { return string(v.raw) }

// Bool returns the value of a Bool token.
func (v Value) Bool() bool { return v.b }

// Name returns the decoded member name of a Name token.
func (v Value) Name() string { return v.str }

// ParsedString returns the decoded content of a String token.
func (v Value) ParsedString() string { return v.str }

// Int returns the signed integer of a Number token if it is an integer that
// fits in bitSize bits. Exponent forms such as 1e2 are accepted. The result
// is zero whenever ok is false.
func (v Value) Int(bitSize int) (int64, bool) {
	s, ok := integerText(string(v.raw))
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Uint returns the unsigned integer of a Number token if it is an integer
// that fits in bitSize bits. The result is zero whenever ok is false.
func (v Value) Uint(bitSize int) (uint64, bool) {
	s, ok := integerText(string(v.raw))
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, bitSize)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float returns the floating-point value of a Number token. It reports false
// if the number overflows bitSize.
func (v Value) Float(bitSize int) (float64, bool) {
	f, err := strconv.ParseFloat(string(v.raw), bitSize)
	return f, err == nil
}
