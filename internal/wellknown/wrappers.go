// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wellknown

import (
	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/scalar"
	"github.com/protobridge/protobridge/reflect/schema"
)

// The wrapper types carry their value in field 1.
const wrapperValueField wire.Number = 1

// wrapper returns the codec for a wrapper message around a scalar of kind k.
// The JSON form of a wrapper is the JSON form of the wrapped value, with
// 64-bit integers always rendered as strings.
func wrapper(k schema.Kind) *Codec {
	name := "google.protobuf." + wrapperNames[k]
	return &Codec{
		FromJSON: func(v jsontree.Value) ([]byte, error) {
			if v.IsNull() {
				return nil, nil
			}
			p := wire.GetBuffer()
			defer wire.PutBuffer(p)
			p.EncodeTag(wrapperValueField, k.WireType())
			zero, err := scalar.Encode(p, k, v)
			if err != nil {
				return nil, errors.New("%s: %v", name, err)
			}
			if zero {
				return []byte{}, nil
			}
			return bytesOf(p), nil
		},
		ToJSON: func(b []byte) (jsontree.Value, error) {
			v := scalar.Default(k, true)
			err := forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
				if num != wrapperValueField || typ != k.WireType() {
					return false, nil
				}
				x, err := scalar.Decode(p, k, true)
				if err != nil {
					return false, err
				}
				v = x
				return true, nil
			})
			if err != nil {
				return jsontree.Value{}, wireError(name, err)
			}
			return v, nil
		},
	}
}

var wrapperNames = map[schema.Kind]string{
	schema.DoubleKind: "DoubleValue",
	schema.FloatKind:  "FloatValue",
	schema.Int64Kind:  "Int64Value",
	schema.Uint64Kind: "UInt64Value",
	schema.Int32Kind:  "Int32Value",
	schema.Uint32Kind: "UInt32Value",
	schema.BoolKind:   "BoolValue",
	schema.StringKind: "StringValue",
	schema.BytesKind:  "BytesValue",
}
