// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/protobridge/protobridge/internal/encoding/wire"

// MessageDef describes a message type.
type MessageDef struct {
	FullName string
	// Fields in declaration order.
	Fields []*FieldDef
	// IsMapEntry marks the synthetic key/value message behind a map field.
	// Such a message has exactly the fields key = 1 and value = 2.
	IsMapEntry bool

	byNumber map[wire.Number]*FieldDef
}

// FieldByNumber returns the field with the given number, or nil.
func (md *MessageDef) FieldByNumber(n wire.Number) *FieldDef {
	return md.byNumber[n]
}

// FieldDef describes a single field of a message.
type FieldDef struct {
	Number   wire.Number
	Name     string
	JSONName string
	Kind     Kind
	Repeated bool
	// TypeName is the fully-qualified target of a message, group or enum
	// field, as written in the descriptor (usually with a leading dot).
	TypeName string
	// OneofIndex is the index of the containing oneof, or -1.
	OneofIndex int32
	// Proto3Optional is set for fields declared with the proto3 optional
	// keyword. Such fields live in a synthetic oneof.
	Proto3Optional bool
}

// EnumDef describes an enum type.
type EnumDef struct {
	FullName string
	// Values in declaration order. Several names may share a number.
	Values []EnumValue
}

// EnumValue is a single enum symbol.
type EnumValue struct {
	Name   string
	Number int32
}

// NameOf returns the first declared symbol with number n.
func (ed *EnumDef) NameOf(n int32) (string, bool) {
	for _, v := range ed.Values {
		if v.Number == n {
			return v.Name, true
		}
	}
	return "", false
}

// NumberOf returns the number of the symbol named exactly name.
func (ed *EnumDef) NumberOf(name string) (int32, bool) {
	for _, v := range ed.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}
