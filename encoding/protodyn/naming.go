// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protodyn converts between generic JSON value trees and the protobuf
// binary wire format, driven by message definitions from a schema index
// rather than by generated Go types.
package protodyn

import (
	"fmt"

	"github.com/protobridge/protobridge/reflect/schema"
)

// FieldNaming selects which name of a field is used in JSON objects.
type FieldNaming int8

const (
	// JSONName is the lowerCamelCase name, or the json_name option if set.
	JSONName FieldNaming = iota
	// ProtoName is the field name as declared in the .proto source.
	ProtoName
)

func (n FieldNaming) String() string {
	switch n {
	case JSONName:
		return "json"
	case ProtoName:
		return "proto"
	}
	return fmt.Sprintf("<unknown:%d>", int8(n))
}

// name returns the name of fd under n.
func (n FieldNaming) name(fd *schema.FieldDef) string {
	if n == ProtoName {
		return fd.Name
	}
	return fd.JSONName
}

// other returns the name of fd not selected by n.
func (n FieldNaming) other(fd *schema.FieldDef) string {
	if n == ProtoName {
		return fd.JSONName
	}
	return fd.Name
}
