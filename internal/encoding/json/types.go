// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import "fmt"

// Type identifies the kind of a token read by the Decoder. Every Type is a
// distinct bit, so a set of types can be tested with a mask.
type Type uint16

const (
	EOF Type = 1 << iota
	Null
	Bool
	Number
	String
	Name
	ObjectOpen
	ObjectClose
	ArrayOpen
	ArrayClose

	// comma separates values and is never returned by Read.
	comma
)

// valueEnd is the set of tokens that complete a value.
const valueEnd = Null | Bool | Number | String | ObjectClose | ArrayClose

var typeNames = map[Type]string{
	EOF:         "eof",
	Null:        "null",
	Bool:        "bool",
	Number:      "number",
	String:      "string",
	Name:        "name",
	ObjectOpen:  "{",
	ObjectClose: "}",
	ArrayOpen:   "[",
	ArrayClose:  "]",
	comma:       ",",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("<invalid:%d>", uint16(t))
}
