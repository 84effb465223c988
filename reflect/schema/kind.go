// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/protobridge/protobridge/internal/encoding/wire"
)

// Kind indicates the basic proto kind of a field.
// Values equal those of google.protobuf.FieldDescriptorProto.Type.
type Kind int8

const (
	DoubleKind   Kind = 1
	FloatKind    Kind = 2
	Int64Kind    Kind = 3
	Uint64Kind   Kind = 4
	Int32Kind    Kind = 5
	Fixed64Kind  Kind = 6
	Fixed32Kind  Kind = 7
	BoolKind     Kind = 8
	StringKind   Kind = 9
	GroupKind    Kind = 10
	MessageKind  Kind = 11
	BytesKind    Kind = 12
	Uint32Kind   Kind = 13
	EnumKind     Kind = 14
	Sfixed32Kind Kind = 15
	Sfixed64Kind Kind = 16
	Sint32Kind   Kind = 17
	Sint64Kind   Kind = 18
)

var kindNames = [...]string{
	DoubleKind:   "double",
	FloatKind:    "float",
	Int64Kind:    "int64",
	Uint64Kind:   "uint64",
	Int32Kind:    "int32",
	Fixed64Kind:  "fixed64",
	Fixed32Kind:  "fixed32",
	BoolKind:     "bool",
	StringKind:   "string",
	GroupKind:    "group",
	MessageKind:  "message",
	BytesKind:    "bytes",
	Uint32Kind:   "uint32",
	EnumKind:     "enum",
	Sfixed32Kind: "sfixed32",
	Sfixed64Kind: "sfixed64",
	Sint32Kind:   "sint32",
	Sint64Kind:   "sint64",
}

// wireTypes maps each kind to the wire type its values are encoded with.
// The invalid kind 0 maps to wire.None and is never dispatched.
var wireTypes = [...]wire.Type{
	0:            wire.None,
	DoubleKind:   wire.Fixed64Type,
	FloatKind:    wire.Fixed32Type,
	Int64Kind:    wire.VarintType,
	Uint64Kind:   wire.VarintType,
	Int32Kind:    wire.VarintType,
	Fixed64Kind:  wire.Fixed64Type,
	Fixed32Kind:  wire.Fixed32Type,
	BoolKind:     wire.VarintType,
	StringKind:   wire.BytesType,
	GroupKind:    wire.StartGroupType,
	MessageKind:  wire.BytesType,
	BytesKind:    wire.BytesType,
	Uint32Kind:   wire.VarintType,
	EnumKind:     wire.VarintType,
	Sfixed32Kind: wire.Fixed32Type,
	Sfixed64Kind: wire.Fixed64Type,
	Sint32Kind:   wire.VarintType,
	Sint64Kind:   wire.VarintType,
}

// IsValid reports whether k is one of the 18 defined kinds.
func (k Kind) IsValid() bool {
	return DoubleKind <= k && k <= Sint64Kind
}

func (k Kind) String() string {
	if k.IsValid() {
		return kindNames[k]
	}
	return fmt.Sprintf("<unknown:%d>", int8(k))
}

// WireType returns the wire type used for a single value of kind k,
// or wire.None if k is not valid.
func (k Kind) WireType() wire.Type {
	if k.IsValid() {
		return wireTypes[k]
	}
	return wire.None
}

// IsPackable reports whether repeated fields of kind k may use the packed
// encoding.
func (k Kind) IsPackable() bool {
	switch k.WireType() {
	case wire.VarintType, wire.Fixed32Type, wire.Fixed64Type:
		return true
	}
	return false
}
