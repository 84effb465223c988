// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"encoding/base64"

	"github.com/protobridge/protobridge/internal/encoding/json"
)

// Marshal writes v as compact JSON text. Strings are escaped only where JSON
// requires it, so HTML-sensitive characters are left as is. Bytes are written
// as standard padded base64 strings.
func Marshal(v Value) ([]byte, error) {
	return MarshalIndent(v, "")
}

// MarshalIndent is like Marshal but places each array element and object
// member on its own line, prefixed by indent per nesting level.
func MarshalIndent(v Value, indent string) ([]byte, error) {
	enc, err := json.NewEncoder(indent)
	if err != nil {
		return nil, err
	}
	writeValue(enc, v)
	return enc.Bytes(), nil
}

func writeValue(enc *json.Encoder, v Value) {
	switch v.kind {
	case Null:
		enc.WriteNull()
	case Bool:
		enc.WriteBool(v.b)
	case String:
		enc.WriteString(v.s)
	case Bytes:
		enc.WriteString(base64.StdEncoding.EncodeToString(v.raw))
	case Int32, Int64:
		enc.WriteInt(v.i)
	case Uint32, Uint64:
		enc.WriteUint(v.u)
	case Double:
		enc.WriteFloat(v.f, v.Bits())
	case Decimal, RawNumber:
		enc.WriteNumber(v.numberText())
	case Array:
		enc.StartArray()
		for _, e := range v.arr {
			writeValue(enc, e)
		}
		enc.EndArray()
	case Object:
		enc.StartObject()
		for _, m := range v.obj.List() {
			enc.WriteName(m.Name)
			writeValue(enc, m.Value)
		}
		enc.EndObject()
	}
}
