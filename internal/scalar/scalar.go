// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalar converts between JSON tree leaves and the wire encoding of
// protobuf scalar fields. Enums, messages and groups are handled by callers.
package scalar

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/reflect/schema"
)

// Encode appends the wire encoding of v as a value of kind k to b, without a
// tag. It reports whether the encoded value is the default of k.
//
// Integers accept JSON numbers and strings holding a number; floats also
// accept "NaN", "Infinity" and "-Infinity"; bools accept true, false and the
// strings "true" and "false"; bytes accept raw bytes and base64 strings in
// either the standard or URL-safe alphabet, with or without padding.
func Encode(b *wire.Buffer, k schema.Kind, v jsontree.Value) (zero bool, err error) {
	switch k {
	case schema.BoolKind:
		x, err := toBool(v)
		if err != nil {
			return false, err
		}
		if x {
			b.EncodeVarint(1)
		} else {
			b.EncodeVarint(0)
		}
		return !x, nil
	case schema.Int32Kind, schema.Sint32Kind, schema.Sfixed32Kind:
		n, err := toInt(v, 32)
		if err != nil {
			return false, err
		}
		switch k {
		case schema.Int32Kind:
			b.EncodeVarint(uint64(n))
		case schema.Sint32Kind:
			b.EncodeZigzag32(int32(n))
		default:
			b.EncodeFixed32(uint32(n))
		}
		return n == 0, nil
	case schema.Int64Kind, schema.Sint64Kind, schema.Sfixed64Kind:
		n, err := toInt(v, 64)
		if err != nil {
			return false, err
		}
		switch k {
		case schema.Int64Kind:
			b.EncodeVarint(uint64(n))
		case schema.Sint64Kind:
			b.EncodeZigzag64(n)
		default:
			b.EncodeFixed64(uint64(n))
		}
		return n == 0, nil
	case schema.Uint32Kind, schema.Fixed32Kind:
		n, err := toUint(v, 32)
		if err != nil {
			return false, err
		}
		if k == schema.Uint32Kind {
			b.EncodeVarint(n)
		} else {
			b.EncodeFixed32(uint32(n))
		}
		return n == 0, nil
	case schema.Uint64Kind, schema.Fixed64Kind:
		n, err := toUint(v, 64)
		if err != nil {
			return false, err
		}
		if k == schema.Uint64Kind {
			b.EncodeVarint(n)
		} else {
			b.EncodeFixed64(n)
		}
		return n == 0, nil
	case schema.FloatKind:
		f, err := toFloat(v, 32)
		if err != nil {
			return false, err
		}
		b.EncodeFixed32(math.Float32bits(float32(f)))
		return math.Float32bits(float32(f)) == 0, nil
	case schema.DoubleKind:
		f, err := toFloat(v, 64)
		if err != nil {
			return false, err
		}
		b.EncodeFixed64(math.Float64bits(f))
		return math.Float64bits(f) == 0, nil
	case schema.StringKind:
		if v.Kind() != jsontree.String {
			return false, shapeError(k, v)
		}
		b.EncodeStringBytes(v.Str())
		return v.Str() == "", nil
	case schema.BytesKind:
		raw, err := toBytes(v)
		if err != nil {
			return false, err
		}
		b.EncodeRawBytes(raw)
		return len(raw) == 0, nil
	}
	return false, errors.Wrap(errors.UnsupportedFieldType, "unsupported scalar kind %v", k)
}

// Decode reads a single value of kind k from b. The caller has verified that
// the wire type matches k. If int64AsString is set, 64-bit integers are
// returned as decimal strings.
func Decode(b *wire.Buffer, k schema.Kind, int64AsString bool) (jsontree.Value, error) {
	switch k.WireType() {
	case wire.VarintType:
		x, err := b.DecodeVarint()
		if err != nil {
			return jsontree.Value{}, err
		}
		switch k {
		case schema.BoolKind:
			return jsontree.BoolValue(x != 0), nil
		case schema.Int32Kind:
			return jsontree.Int32Value(int32(x)), nil
		case schema.Sint32Kind:
			return jsontree.Int32Value(wire.DecodeZigZag32(uint32(x))), nil
		case schema.Uint32Kind:
			return jsontree.Uint32Value(uint32(x)), nil
		case schema.Int64Kind:
			return int64Value(int64(x), int64AsString), nil
		case schema.Sint64Kind:
			return int64Value(wire.DecodeZigZag64(x), int64AsString), nil
		case schema.Uint64Kind:
			return uint64Value(x, int64AsString), nil
		}
	case wire.Fixed32Type:
		x, err := b.DecodeFixed32()
		if err != nil {
			return jsontree.Value{}, err
		}
		switch k {
		case schema.Fixed32Kind:
			return jsontree.Uint32Value(x), nil
		case schema.Sfixed32Kind:
			return jsontree.Int32Value(int32(x)), nil
		case schema.FloatKind:
			return jsontree.FloatValue(math.Float32frombits(x)), nil
		}
	case wire.Fixed64Type:
		x, err := b.DecodeFixed64()
		if err != nil {
			return jsontree.Value{}, err
		}
		switch k {
		case schema.Fixed64Kind:
			return uint64Value(x, int64AsString), nil
		case schema.Sfixed64Kind:
			return int64Value(int64(x), int64AsString), nil
		case schema.DoubleKind:
			return jsontree.DoubleValue(math.Float64frombits(x)), nil
		}
	case wire.BytesType:
		switch k {
		case schema.StringKind:
			s, err := b.DecodeStringBytes()
			if err != nil {
				return jsontree.Value{}, err
			}
			return jsontree.StringValue(s), nil
		case schema.BytesKind:
			raw, err := b.DecodeRawBytes(true)
			if err != nil {
				return jsontree.Value{}, err
			}
			return jsontree.BytesValue(raw), nil
		}
	}
	return jsontree.Value{}, errors.Wrap(errors.UnsupportedFieldType, "unsupported scalar kind %v", k)
}

// Default returns the JSON value of an unset field of kind k.
func Default(k schema.Kind, int64AsString bool) jsontree.Value {
	switch k {
	case schema.BoolKind:
		return jsontree.BoolValue(false)
	case schema.Int32Kind, schema.Sint32Kind, schema.Sfixed32Kind:
		return jsontree.Int32Value(0)
	case schema.Uint32Kind, schema.Fixed32Kind:
		return jsontree.Uint32Value(0)
	case schema.Int64Kind, schema.Sint64Kind, schema.Sfixed64Kind:
		return int64Value(0, int64AsString)
	case schema.Uint64Kind, schema.Fixed64Kind:
		return uint64Value(0, int64AsString)
	case schema.FloatKind:
		return jsontree.FloatValue(0)
	case schema.DoubleKind:
		return jsontree.DoubleValue(0)
	case schema.StringKind:
		return jsontree.StringValue("")
	case schema.BytesKind:
		return jsontree.BytesValue([]byte{})
	}
	return jsontree.NullValue()
}

func int64Value(n int64, asString bool) jsontree.Value {
	if asString {
		return jsontree.StringValue(strconv.FormatInt(n, 10))
	}
	return jsontree.Int64Value(n)
}

func uint64Value(n uint64, asString bool) jsontree.Value {
	if asString {
		return jsontree.StringValue(strconv.FormatUint(n, 10))
	}
	return jsontree.Uint64Value(n)
}

func shapeError(k schema.Kind, v jsontree.Value) error {
	return errors.Wrap(errors.ValueShape, "cannot use JSON %v as %v", v.Kind(), k)
}

// number returns v, or the number held in the string v.
func number(k schema.Kind, v jsontree.Value) (jsontree.Value, error) {
	switch {
	case v.Kind().IsNumber():
		return v, nil
	case v.Kind() == jsontree.String:
		if n, ok := jsontree.ParseNumber(strings.TrimSpace(v.Str())); ok {
			return n, nil
		}
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "invalid %v value %q", k, v.Str())
	}
	return jsontree.Value{}, shapeError(k, v)
}

func toInt(v jsontree.Value, bitSize int) (int64, error) {
	k := schema.Int64Kind
	if bitSize == 32 {
		k = schema.Int32Kind
	}
	n, err := number(k, v)
	if err != nil {
		return 0, err
	}
	x, ok := n.Int64()
	if !ok || (bitSize == 32 && (x < math.MinInt32 || x > math.MaxInt32)) {
		return 0, errors.Wrap(errors.ValueShape, "%v is not a valid %v", n.GoString(), k)
	}
	return x, nil
}

func toUint(v jsontree.Value, bitSize int) (uint64, error) {
	k := schema.Uint64Kind
	if bitSize == 32 {
		k = schema.Uint32Kind
	}
	n, err := number(k, v)
	if err != nil {
		return 0, err
	}
	x, ok := n.Uint64()
	if !ok || (bitSize == 32 && x > math.MaxUint32) {
		return 0, errors.Wrap(errors.ValueShape, "%v is not a valid %v", n.GoString(), k)
	}
	return x, nil
}

func toFloat(v jsontree.Value, bitSize int) (float64, error) {
	k := schema.DoubleKind
	if bitSize == 32 {
		k = schema.FloatKind
	}
	if v.Kind() == jsontree.String {
		switch v.Str() {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(+1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
	}
	n, err := number(k, v)
	if err != nil {
		return 0, err
	}
	f, ok := n.Float64()
	if !ok || (bitSize == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32) {
		return 0, errors.Wrap(errors.ValueShape, "%v is out of range for %v", n.GoString(), k)
	}
	return f, nil
}

func toBool(v jsontree.Value) (bool, error) {
	switch v.Kind() {
	case jsontree.Bool:
		return v.Bool(), nil
	case jsontree.String:
		switch v.Str() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, shapeError(schema.BoolKind, v)
}

func toBytes(v jsontree.Value) ([]byte, error) {
	switch v.Kind() {
	case jsontree.Bytes:
		return v.Bytes(), nil
	case jsontree.String:
		return DecodeBase64(v.Str())
	}
	return nil, shapeError(schema.BytesKind, v)
}

// DecodeBase64 decodes s in the standard or URL-safe base64 alphabet, with or
// without padding.
func DecodeBase64(s string) ([]byte, error) {
	enc := base64.StdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.URLEncoding
	}
	if len(s)%4 != 0 {
		enc = enc.WithPadding(base64.NoPadding)
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidBytes, "invalid base64 %q: %v", truncate(s), err)
	}
	return b, nil
}

func truncate(s string) string {
	const max = 32
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i] + "..."
}
