// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wellknown implements the JSON mappings of the google.protobuf
// well-known types whose JSON form differs from that of an ordinary message.
//
// Each codec converts between the bare JSON literal of the type and the
// binary payload of the message, without its enclosing tag and length.
package wellknown

import (
	"strings"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/reflect/schema"
)

// Codec converts one well-known type.
type Codec struct {
	// FromJSON returns the binary payload for a JSON literal.
	FromJSON func(v jsontree.Value) ([]byte, error)
	// ToJSON returns the JSON literal for a binary payload.
	ToJSON func(b []byte) (jsontree.Value, error)
}

// AnyName is the full name of google.protobuf.Any. Its JSON mapping needs a
// type index and is not served by Lookup.
const AnyName = "google.protobuf.Any"

// NullValueName is the full name of the google.protobuf.NullValue enum.
const NullValueName = "google.protobuf.NullValue"

var codecs map[string]*Codec

func init() {
	codecs = map[string]*Codec{
		"google.protobuf.Timestamp":   {FromJSON: timestampFromJSON, ToJSON: timestampToJSON},
		"google.protobuf.Duration":    {FromJSON: durationFromJSON, ToJSON: durationToJSON},
		"google.protobuf.DoubleValue": wrapper(schema.DoubleKind),
		"google.protobuf.FloatValue":  wrapper(schema.FloatKind),
		"google.protobuf.Int64Value":  wrapper(schema.Int64Kind),
		"google.protobuf.UInt64Value": wrapper(schema.Uint64Kind),
		"google.protobuf.Int32Value":  wrapper(schema.Int32Kind),
		"google.protobuf.UInt32Value": wrapper(schema.Uint32Kind),
		"google.protobuf.BoolValue":   wrapper(schema.BoolKind),
		"google.protobuf.StringValue": wrapper(schema.StringKind),
		"google.protobuf.BytesValue":  wrapper(schema.BytesKind),
		"google.protobuf.Empty":       {FromJSON: emptyFromJSON, ToJSON: emptyToJSON},
		"google.protobuf.FieldMask":   {FromJSON: fieldMaskFromJSON, ToJSON: fieldMaskToJSON},
		"google.protobuf.Struct":      {FromJSON: structFromJSON, ToJSON: structToJSON},
		"google.protobuf.Value":       {FromJSON: valueFromJSON, ToJSON: valueToJSON},
		"google.protobuf.ListValue":   {FromJSON: listFromJSON, ToJSON: listToJSON},
	}
}

// Lookup returns the codec for the fully-qualified type name, which may carry
// a leading dot.
func Lookup(typeName string) (*Codec, bool) {
	c, ok := codecs[strings.TrimPrefix(typeName, ".")]
	return c, ok
}

func shapeError(typeName string, v jsontree.Value) error {
	return errors.Wrap(errors.ValueShape, "%s: unexpected JSON %v", typeName, v.Kind())
}

func wireError(typeName string, err error) error {
	return errors.New("%s: invalid wire data: %v", typeName, err)
}

// forEachField calls fn for every field of the message payload b. fn must
// consume the field's value from p when it returns true; otherwise the field
// is skipped.
func forEachField(b []byte, fn func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error)) error {
	p := wire.NewBuffer(b)
	for !p.EOF() {
		num, typ, err := p.DecodeTag()
		if err != nil {
			return err
		}
		ok, err := fn(num, typ, p)
		if err != nil {
			return err
		}
		if !ok {
			if err := p.SkipField(num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// bytesOf copies the contents of p.
func bytesOf(p *wire.Buffer) []byte {
	return append([]byte{}, p.Bytes()...)
}
