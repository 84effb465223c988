// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protodyn

import (
	"strings"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/wellknown"
)

// Field numbers of google.protobuf.Any.
const (
	anyTypeURL wire.Number = 1
	anyValue   wire.Number = 2
)

// The JSON representation of an Any is an object holding the "@type" member
// next to the fields of the embedded message. Types with a custom JSON
// mapping hold their JSON form in a "value" member instead.

// marshalAny encodes the Any held in the object m. The embedded type is
// resolved in the encoder's index.
func (e encoder) marshalAny(m *jsontree.Members) ([]byte, error) {
	if m.Len() == 0 {
		return []byte{}, nil
	}
	tv, ok := m.Get("@type")
	if !ok || tv.Kind() != jsontree.String {
		return nil, errors.Wrap(errors.ValueShape, "%s: missing or invalid \"@type\"", wellknown.AnyName)
	}
	typeURL := tv.Str()
	typeName := typeNameOf(typeURL)
	if typeName == "" {
		return nil, errors.Wrap(errors.ValueShape, "%s: invalid type URL %q", wellknown.AnyName, typeURL)
	}

	var payload []byte
	if c, ok := wellknown.Lookup(typeName); ok {
		v, ok := m.Get("value")
		if !ok {
			return nil, errors.Wrap(errors.ValueShape, "%s: missing \"value\" for %s", wellknown.AnyName, typeName)
		}
		b, err := c.FromJSON(v)
		if err != nil {
			return nil, err
		}
		payload = b
	} else if typeName == wellknown.AnyName {
		v, ok := m.Get("value")
		if !ok || v.Kind() != jsontree.Object {
			return nil, errors.Wrap(errors.ValueShape, "%s: missing \"value\" for %s", wellknown.AnyName, typeName)
		}
		b, err := e.marshalAny(v.Object())
		if err != nil {
			return nil, err
		}
		payload = b
	} else {
		md, err := e.idx.GetMessage(typeName)
		if err != nil {
			return nil, err
		}
		rest := jsontree.NewMembers()
		for _, mem := range m.List() {
			if mem.Name != "@type" {
				rest.Set(mem.Name, mem.Value)
			}
		}
		sub := wire.GetBuffer()
		defer wire.PutBuffer(sub)
		if err := e.marshalMessage(sub, rest, md); err != nil {
			return nil, err
		}
		payload = sub.Bytes()
	}

	p := wire.GetBuffer()
	defer wire.PutBuffer(p)
	p.EncodeTag(anyTypeURL, wire.BytesType)
	p.EncodeStringBytes(typeURL)
	if len(payload) > 0 {
		p.EncodeTag(anyValue, wire.BytesType)
		p.EncodeRawBytes(payload)
	}
	return append([]byte{}, p.Bytes()...), nil
}

// unmarshalAny decodes the Any payload b into its JSON object form.
func (d decoder) unmarshalAny(b []byte, depth int) (jsontree.Value, error) {
	var typeURL string
	var payload []byte
	p := wire.NewBuffer(b)
	for !p.EOF() {
		num, typ, err := p.DecodeTag()
		if err != nil {
			return jsontree.Value{}, err
		}
		switch {
		case num == anyTypeURL && typ == wire.BytesType:
			typeURL, err = p.DecodeStringBytes()
		case num == anyValue && typ == wire.BytesType:
			payload, err = p.DecodeRawBytes(false)
		default:
			err = p.SkipField(num, typ)
		}
		if err != nil {
			return jsontree.Value{}, err
		}
	}

	m := jsontree.NewMembers()
	if typeURL == "" {
		if len(payload) > 0 {
			return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: empty type URL with non-empty value", wellknown.AnyName)
		}
		return jsontree.ObjectValue(m), nil
	}
	typeName := typeNameOf(typeURL)
	if typeName == "" {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: invalid type URL %q", wellknown.AnyName, typeURL)
	}
	m.Set("@type", jsontree.StringValue(typeURL))

	if c, ok := wellknown.Lookup(typeName); ok {
		v, err := c.ToJSON(payload)
		if err != nil {
			return jsontree.Value{}, err
		}
		m.Set("value", v)
		return jsontree.ObjectValue(m), nil
	}
	if typeName == wellknown.AnyName {
		v, err := d.unmarshalAny(payload, depth+1)
		if err != nil {
			return jsontree.Value{}, err
		}
		m.Set("value", v)
		return jsontree.ObjectValue(m), nil
	}
	md, err := d.idx.GetMessage(typeName)
	if err != nil {
		return jsontree.Value{}, err
	}
	inner, err := d.unmarshalMessage(payload, md, depth+1)
	if err != nil {
		return jsontree.Value{}, err
	}
	for _, mem := range inner.List() {
		m.Set(mem.Name, mem.Value)
	}
	return jsontree.ObjectValue(m), nil
}

// typeNameOf returns the message name of a type URL, the part after the
// last '/'.
func typeNameOf(typeURL string) string {
	name := typeURL
	if i := strings.LastIndexByte(typeURL, '/'); i >= 0 {
		name = typeURL[i+1:]
	}
	return name
}
