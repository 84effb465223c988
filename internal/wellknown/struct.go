// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wellknown

import (
	"encoding/base64"
	"math"
	"strings"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
)

// Field numbers of google.protobuf.Struct, Value, ListValue and FieldMask.
const (
	structFields wire.Number = 1 // map<string, Value>

	valueNull   wire.Number = 1
	valueNumber wire.Number = 2
	valueString wire.Number = 3
	valueBool   wire.Number = 4
	valueStruct wire.Number = 5
	valueList   wire.Number = 6

	listValues wire.Number = 1

	fieldMaskPaths wire.Number = 1

	mapKey   wire.Number = 1
	mapValue wire.Number = 2
)

// The JSON representation for Empty is an empty JSON object.

func emptyFromJSON(v jsontree.Value) ([]byte, error) {
	if v.Kind() != jsontree.Object || v.Object().Len() != 0 {
		return nil, shapeError("google.protobuf.Empty", v)
	}
	return []byte{}, nil
}

func emptyToJSON([]byte) (jsontree.Value, error) {
	return jsontree.ObjectValue(jsontree.NewMembers()), nil
}

// The JSON representation for a FieldMask is a JSON string where paths are
// separated by a comma. Field names in each path are converted to/from
// lower-camel naming conventions. Encoding fails if the path name would end
// up differently after a round-trip.

func fieldMaskFromJSON(v jsontree.Value) ([]byte, error) {
	if v.Kind() != jsontree.String {
		return nil, shapeError("google.protobuf.FieldMask", v)
	}
	p := wire.GetBuffer()
	defer wire.PutBuffer(p)
	str := strings.TrimSpace(v.Str())
	if str != "" {
		for _, s := range strings.Split(str, ",") {
			// No validation is done because the original path names are not
			// known.
			p.EncodeTag(fieldMaskPaths, wire.BytesType)
			p.EncodeStringBytes(snakeCase(strings.TrimSpace(s)))
		}
	}
	return bytesOf(p), nil
}

func fieldMaskToJSON(b []byte) (jsontree.Value, error) {
	const name = "google.protobuf.FieldMask"
	var paths []string
	err := forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
		if num != fieldMaskPaths || typ != wire.BytesType {
			return false, nil
		}
		s, err := p.DecodeStringBytes()
		if err != nil {
			return false, err
		}
		paths = append(paths, s)
		return true, nil
	})
	if err != nil {
		return jsontree.Value{}, wireError(name, err)
	}
	for i, s := range paths {
		cc := camelCase(s)
		if s != snakeCase(cc) {
			return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s.paths contains irreversible value %q", name, s)
		}
		paths[i] = cc
	}
	return jsontree.StringValue(strings.Join(paths, ",")), nil
}

// camelCase converts the given string into camelCase where an ASCII character
// after _ is turned into uppercase and _'s are removed.
func camelCase(s string) string {
	var b []byte
	var afterUnderscore bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if afterUnderscore && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c == '_' {
			afterUnderscore = true
			continue
		}
		afterUnderscore = false
		b = append(b, c)
	}
	return string(b)
}

// snakeCase converts the given string into snake_case where an ASCII
// uppercase character is turned into _ + lowercase.
func snakeCase(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			b = append(b, '_', c+('a'-'A'))
		} else {
			b = append(b, c)
		}
	}
	return string(b)
}

// The JSON representation for Struct is a JSON object holding the
// Struct.fields map. ListValue is a JSON array of its values. Value is the
// JSON value held by its oneof.

func structFromJSON(v jsontree.Value) ([]byte, error) {
	if v.Kind() != jsontree.Object {
		return nil, shapeError("google.protobuf.Struct", v)
	}
	return appendStruct(nil, v.Object())
}

func listFromJSON(v jsontree.Value) ([]byte, error) {
	if v.Kind() != jsontree.Array {
		return nil, shapeError("google.protobuf.ListValue", v)
	}
	return appendList(nil, v.Array())
}

func valueFromJSON(v jsontree.Value) ([]byte, error) {
	return appendValue(nil, v)
}

func appendStruct(b []byte, m *jsontree.Members) ([]byte, error) {
	for _, mem := range m.List() {
		val, err := appendValue(nil, mem.Value)
		if err != nil {
			return nil, err
		}
		entry := appendStringField(nil, mapKey, mem.Name)
		entry = appendBytesField(entry, mapValue, val)
		b = appendBytesField(b, structFields, entry)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func appendList(b []byte, elems []jsontree.Value) ([]byte, error) {
	for _, e := range elems {
		val, err := appendValue(nil, e)
		if err != nil {
			return nil, err
		}
		b = appendBytesField(b, listValues, val)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func appendValue(b []byte, v jsontree.Value) ([]byte, error) {
	switch v.Kind() {
	case jsontree.Null:
		b = wire.AppendVarint(b, wire.EncodeTag(valueNull, wire.VarintType))
		b = wire.AppendVarint(b, 0)
	case jsontree.Bool:
		b = wire.AppendVarint(b, wire.EncodeTag(valueBool, wire.VarintType))
		if v.Bool() {
			b = wire.AppendVarint(b, 1)
		} else {
			b = wire.AppendVarint(b, 0)
		}
	case jsontree.String:
		b = appendStringField(b, valueString, v.Str())
	case jsontree.Bytes:
		b = appendStringField(b, valueString, base64.StdEncoding.EncodeToString(v.Bytes()))
	case jsontree.Object:
		s, err := appendStruct(nil, v.Object())
		if err != nil {
			return nil, err
		}
		b = appendBytesField(b, valueStruct, s)
	case jsontree.Array:
		l, err := appendList(nil, v.Array())
		if err != nil {
			return nil, err
		}
		b = appendBytesField(b, valueList, l)
	default:
		f, ok := v.Float64()
		if !ok {
			return nil, errors.Wrap(errors.ValueShape, "google.protobuf.Value: number out of range %v", v)
		}
		b = wire.AppendVarint(b, wire.EncodeTag(valueNumber, wire.Fixed64Type))
		x := math.Float64bits(f)
		b = append(b, byte(x), byte(x>>8), byte(x>>16), byte(x>>24),
			byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
	}
	return b, nil
}

func appendStringField(b []byte, num wire.Number, s string) []byte {
	b = wire.AppendVarint(b, wire.EncodeTag(num, wire.BytesType))
	b = wire.AppendVarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendBytesField(b []byte, num wire.Number, v []byte) []byte {
	b = wire.AppendVarint(b, wire.EncodeTag(num, wire.BytesType))
	b = wire.AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}

func structToJSON(b []byte) (jsontree.Value, error) {
	m, err := readStruct(b)
	if err != nil {
		return jsontree.Value{}, wireError("google.protobuf.Struct", err)
	}
	return jsontree.ObjectValue(m), nil
}

func listToJSON(b []byte) (jsontree.Value, error) {
	elems, err := readList(b)
	if err != nil {
		return jsontree.Value{}, wireError("google.protobuf.ListValue", err)
	}
	return jsontree.ArrayValue(elems...), nil
}

func valueToJSON(b []byte) (jsontree.Value, error) {
	v, err := readValue(b)
	if err != nil {
		return jsontree.Value{}, wireError("google.protobuf.Value", err)
	}
	return v, nil
}

func readStruct(b []byte) (*jsontree.Members, error) {
	m := jsontree.NewMembers()
	err := forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
		if num != structFields || typ != wire.BytesType {
			return false, nil
		}
		entry, err := p.DecodeRawBytes(false)
		if err != nil {
			return false, err
		}
		var key string
		val := jsontree.NullValue()
		err = forEachField(entry, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
			if typ != wire.BytesType {
				return false, nil
			}
			switch num {
			case mapKey:
				s, err := p.DecodeStringBytes()
				key = s
				return true, err
			case mapValue:
				raw, err := p.DecodeRawBytes(false)
				if err != nil {
					return false, err
				}
				val, err = readValue(raw)
				return true, err
			}
			return false, nil
		})
		if err != nil {
			return false, err
		}
		m.Set(key, val)
		return true, nil
	})
	return m, err
}

func readList(b []byte) ([]jsontree.Value, error) {
	elems := []jsontree.Value{}
	err := forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
		if num != listValues || typ != wire.BytesType {
			return false, nil
		}
		raw, err := p.DecodeRawBytes(false)
		if err != nil {
			return false, err
		}
		v, err := readValue(raw)
		if err != nil {
			return false, err
		}
		elems = append(elems, v)
		return true, nil
	})
	return elems, err
}

// readValue decodes a Value. The last member of the kind oneof wins, and a
// Value with no member set is null.
func readValue(b []byte) (jsontree.Value, error) {
	v := jsontree.NullValue()
	err := forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
		switch {
		case num == valueNull && typ == wire.VarintType:
			_, err := p.DecodeVarint()
			v = jsontree.NullValue()
			return true, err
		case num == valueBool && typ == wire.VarintType:
			x, err := p.DecodeVarint()
			v = jsontree.BoolValue(x != 0)
			return true, err
		case num == valueNumber && typ == wire.Fixed64Type:
			x, err := p.DecodeFixed64()
			v = jsontree.DoubleValue(math.Float64frombits(x))
			return true, err
		case num == valueString && typ == wire.BytesType:
			s, err := p.DecodeStringBytes()
			v = jsontree.StringValue(s)
			return true, err
		case num == valueStruct && typ == wire.BytesType:
			raw, err := p.DecodeRawBytes(false)
			if err != nil {
				return false, err
			}
			m, err := readStruct(raw)
			v = jsontree.ObjectValue(m)
			return true, err
		case num == valueList && typ == wire.BytesType:
			raw, err := p.DecodeRawBytes(false)
			if err != nil {
				return false, err
			}
			elems, err := readList(raw)
			v = jsontree.ArrayValue(elems...)
			return true, err
		}
		return false, nil
	})
	return v, err
}
