// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsontree implements a generic JSON value tree: a recursive sum type
// exchanged between JSON text and the schema-driven protobuf codec.
//
// Numbers are held in the smallest representation that reproduces the source
// literal exactly, tried in the order int32, uint32, int64, uint64,
// arbitrary-precision decimal and double. A number that fits none of these
// is kept as its raw text.
package jsontree

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	String
	Bytes
	Int32
	Uint32
	Int64
	Uint64
	Decimal
	Double
	RawNumber
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Decimal:
		return "decimal"
	case Double:
		return "double"
	case RawNumber:
		return "number"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("<unknown:%d>", k)
}

// IsNumber reports whether k is one of the numeric kinds.
func (k Kind) IsNumber() bool {
	return Int32 <= k && k <= RawNumber
}

// Value is a node of the tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // String and RawNumber
	raw  []byte // Bytes
	i    int64  // Int32 and Int64
	u    uint64 // Uint32 and Uint64
	f    float64
	bits int // bit size of a Double, 32 or 64
	d    decimal.Decimal
	arr  []Value
	obj  *Members
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// BoolValue returns a Bool Value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue returns a String Value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// BytesValue returns a Bytes Value. It is rendered as a base64 string.
func BytesValue(b []byte) Value { return Value{kind: Bytes, raw: b} }

// Int32Value returns an Int32 Value.
func Int32Value(n int32) Value { return Value{kind: Int32, i: int64(n)} }

// Uint32Value returns a Uint32 Value.
func Uint32Value(n uint32) Value { return Value{kind: Uint32, u: uint64(n)} }

// Int64Value returns an Int64 Value.
func Int64Value(n int64) Value { return Value{kind: Int64, i: n} }

// Uint64Value returns a Uint64 Value.
func Uint64Value(n uint64) Value { return Value{kind: Uint64, u: n} }

// DecimalValue returns a Decimal Value.
func DecimalValue(d decimal.Decimal) Value { return Value{kind: Decimal, d: d} }

// DoubleValue returns a Double Value printed with 64-bit precision.
func DoubleValue(f float64) Value { return Value{kind: Double, f: f, bits: 64} }

// FloatValue returns a Double Value printed with 32-bit precision.
func FloatValue(f float32) Value { return Value{kind: Double, f: float64(f), bits: 32} }

// RawNumberValue returns a number kept as its literal text. The caller
// guarantees that s is a valid JSON number.
func RawNumberValue(s string) Value { return Value{kind: RawNumber, s: s} }

// ArrayValue returns an Array Value holding elems.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: Array, arr: elems}
}

// ObjectValue returns an Object Value holding m.
// A nil m is treated as an empty object.
func ObjectValue(m *Members) Value {
	if m == nil {
		m = NewMembers()
	}
	return Value{kind: Object, obj: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by a Bool Value.
func (v Value) Bool() bool { return v.b }

// Str returns the string held by a String Value, or the literal text of a
// RawNumber.
func (v Value) Str() string { return v.s }

// Bytes returns the bytes held by a Bytes Value.
func (v Value) Bytes() []byte { return v.raw }

// Decimal returns the decimal held by a Decimal Value.
func (v Value) Decimal() decimal.Decimal { return v.d }

// Array returns the elements of an Array Value.
func (v Value) Array() []Value { return v.arr }

// Object returns the members of an Object Value, or nil for other kinds.
func (v Value) Object() *Members { return v.obj }

// Bits returns the bit size a Double Value is printed with.
func (v Value) Bits() int {
	if v.bits == 0 {
		return 64
	}
	return v.bits
}

// GoString renders v as JSON; it makes test failures readable.
func (v Value) GoString() string {
	b, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%v: %v>", v.kind, err)
	}
	return string(b)
}
