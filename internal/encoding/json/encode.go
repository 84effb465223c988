// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"strconv"
	"strings"

	"github.com/protobridge/protobridge/internal/errors"
)

// Encoder writes JSON tokens to a byte slice. Separators and indentation are
// inserted automatically; the caller must still issue tokens in a valid
// order.
type Encoder struct {
	indent    string
	out       []byte
	frames    []frame
	afterName bool
}

// frame tracks an open object or array.
type frame struct {
	members int
}

// NewEncoder returns an Encoder. A non-empty indent, made only of spaces and
// tabs, puts every array element and object member on its own line.
func NewEncoder(indent string) (*Encoder, error) {
	if strings.Trim(indent, " \t") != "" {
		return nil, errors.New("indent may only be composed of space or tab characters")
	}
	return &Encoder{indent: indent}, nil
}

// Bytes returns the encoded output.
func (e *Encoder) Bytes() []byte { return e.out }

func (e *Encoder) WriteNull() {
	e.beginValue()
	e.out = append(e.out, "null"...)
}

func (e *Encoder) WriteBool(b bool) {
	e.beginValue()
	e.out = strconv.AppendBool(e.out, b)
}

func (e *Encoder) WriteString(s string) {
	e.beginValue()
	e.out = appendString(e.out, s)
}

// WriteFloat writes n as a number of the given bit size. NaN and the
// infinities are written as the strings "NaN", "Infinity" and "-Infinity".
func (e *Encoder) WriteFloat(n float64, bitSize int) {
	e.beginValue()
	e.out = appendFloat(e.out, n, bitSize)
}

func (e *Encoder) WriteInt(n int64) {
	e.beginValue()
	e.out = strconv.AppendInt(e.out, n, 10)
}

func (e *Encoder) WriteUint(n uint64) {
	e.beginValue()
	e.out = strconv.AppendUint(e.out, n, 10)
}

// WriteNumber writes s verbatim. s must be a valid JSON number literal.
func (e *Encoder) WriteNumber(s string) {
	e.beginValue()
	e.out = append(e.out, s...)
}

// WriteName writes an object member name and its ':' separator.
func (e *Encoder) WriteName(s string) {
	e.beginValue()
	e.out = appendString(e.out, s)
	e.out = append(e.out, ':')
	e.afterName = true
}

func (e *Encoder) StartObject() { e.open('{') }
func (e *Encoder) EndObject()   { e.close('}') }
func (e *Encoder) StartArray()  { e.open('[') }
func (e *Encoder) EndArray()    { e.close(']') }

func (e *Encoder) open(c byte) {
	e.beginValue()
	e.out = append(e.out, c)
	e.frames = append(e.frames, frame{})
}

func (e *Encoder) close(c byte) {
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	if f.members > 0 {
		e.newline()
	}
	e.out = append(e.out, c)
}

// beginValue writes whatever must precede the next name or value.
func (e *Encoder) beginValue() {
	if e.afterName {
		e.afterName = false
		if e.indent != "" {
			e.out = append(e.out, ' ')
		}
		return
	}
	if len(e.frames) == 0 {
		return
	}
	f := &e.frames[len(e.frames)-1]
	if f.members > 0 {
		e.out = append(e.out, ',')
	}
	f.members++
	e.newline()
}

func (e *Encoder) newline() {
	if e.indent == "" {
		return
	}
	e.out = append(e.out, '\n')
	for range e.frames {
		e.out = append(e.out, e.indent...)
	}
}
