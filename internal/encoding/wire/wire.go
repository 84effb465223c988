// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements the low-level protocol buffer wire format:
// varints, zigzag, fixed-width values, field tags and length-delimited
// framing.
package wire

import "fmt"

// Number represents the field number.
type Number int32

const (
	MinValidNumber Number = 1
	MaxValidNumber Number = 1<<29 - 1
)

// IsValid reports whether the field number is within the valid range.
func (n Number) IsValid() bool {
	return MinValidNumber <= n && n <= MaxValidNumber
}

// Type represents the wire type.
type Type int8

const (
	None           Type = -1
	VarintType     Type = 0
	Fixed64Type    Type = 1
	BytesType      Type = 2
	StartGroupType Type = 3 // deprecated, kept so the table is complete
	EndGroupType   Type = 4 // deprecated, kept so the table is complete
	Fixed32Type    Type = 5
)

func (t Type) String() string {
	switch t {
	case VarintType:
		return "varint"
	case Fixed64Type:
		return "fixed64"
	case BytesType:
		return "bytes"
	case StartGroupType:
		return "start-group"
	case EndGroupType:
		return "end-group"
	case Fixed32Type:
		return "fixed32"
	case None:
		return "none"
	}
	return fmt.Sprintf("<unknown:%d>", int8(t))
}

// EncodeTag encodes the field Number and wire Type into its unified form.
func EncodeTag(num Number, typ Type) uint64 {
	return uint64(num)<<3 | uint64(typ&7)
}

// DecodeTag decodes the field Number and wire Type from its unified form.
// The Number is -1 if the decoded field number overflows int32.
func DecodeTag(x uint64) (Number, Type) {
	if x>>3 > uint64(1<<31-1) {
		return -1, 0
	}
	return Number(x >> 3), Type(x & 7)
}

// EncodeZigZag32 encodes an int32 as a zig-zag-encoded uint32.
// This is the format used for the sint32 protocol buffer type.
func EncodeZigZag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// DecodeZigZag32 decodes a zig-zag-encoded uint32 as an int32.
func DecodeZigZag32(x uint32) int32 {
	return int32(x>>1) ^ -int32(x&1)
}

// EncodeZigZag64 encodes an int64 as a zig-zag-encoded uint64.
// This is the format used for the sint64 protocol buffer type.
func EncodeZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// DecodeZigZag64 decodes a zig-zag-encoded uint64 as an int64.
func DecodeZigZag64(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}

// SizeVarint returns the varint encoding size of an integer.
func SizeVarint(x uint64) (n int) {
	for {
		n++
		x >>= 7
		if x == 0 {
			break
		}
	}
	return n
}

// AppendVarint appends x to b as a varint-encoded uint64.
func AppendVarint(b []byte, x uint64) []byte {
	for x >= 1<<7 {
		b = append(b, uint8(x&0x7f|0x80))
		x >>= 7
	}
	return append(b, uint8(x))
}
