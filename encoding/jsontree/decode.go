// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"github.com/protobridge/protobridge/internal/encoding/json"
	"github.com/protobridge/protobridge/internal/errors"
)

// maxDepth bounds the nesting of arrays and objects accepted by Parse.
const maxDepth = 10000

// Parse parses a single JSON value from b. Duplicate object member names keep
// the position of the first occurrence and the value of the last.
func Parse(b []byte) (Value, error) {
	d := json.NewDecoder(b)
	v, err := parseValue(d, 0)
	if err != nil {
		return Value{}, err
	}
	tok, err := d.Read()
	if err != nil {
		return Value{}, err
	}
	if tok.Type() != json.EOF {
		return Value{}, errors.New("unexpected token %v after top-level value", tok.Type())
	}
	return v, nil
}

func parseValue(d *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errors.New("exceeded maximum nesting depth %d", maxDepth)
	}
	tok, err := d.Read()
	if err != nil {
		return Value{}, err
	}
	switch tok.Type() {
	case json.Null:
		return NullValue(), nil
	case json.Bool:
		return BoolValue(tok.Bool()), nil
	case json.Number:
		return classifyNumber(tok), nil
	case json.String:
		return StringValue(tok.ParsedString()), nil
	case json.ArrayOpen:
		elems := []Value{}
		for {
			next, err := d.Peek()
			if err != nil {
				return Value{}, err
			}
			if next.Type() == json.ArrayClose {
				d.Read()
				return ArrayValue(elems...), nil
			}
			v, err := parseValue(d, depth+1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
	case json.ObjectOpen:
		m := NewMembers()
		for {
			tok, err := d.Read()
			if err != nil {
				return Value{}, err
			}
			if tok.Type() == json.ObjectClose {
				return ObjectValue(m), nil
			}
			name := tok.Name()
			v, err := parseValue(d, depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(name, v)
		}
	case json.EOF:
		return Value{}, errors.New("unexpected end of JSON input")
	}
	return Value{}, errors.New("unexpected token %v", tok.Type())
}
