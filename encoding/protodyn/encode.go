// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protodyn

import (
	"strings"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/scalar"
	"github.com/protobridge/protobridge/internal/wellknown"
	"github.com/protobridge/protobridge/reflect/schema"
)

const valueName = "google.protobuf.Value"

// Marshal writes the object v as a message of type md using default options.
func Marshal(v jsontree.Value, md *schema.MessageDef, idx *schema.Index) ([]byte, error) {
	return MarshalOptions{}.Marshal(v, md, idx)
}

// MarshalOptions is a configurable value tree to binary marshaler.
type MarshalOptions struct {
	// Naming selects the name a field is looked up by first.
	Naming FieldNaming

	// StrictNames disables the fallback lookup by the name not selected by
	// Naming. Object member lookups are case-insensitive either way.
	StrictNames bool

	// Packed writes repeated scalar fields in the packed encoding. By default
	// each element gets its own field occurrence.
	Packed bool
}

// Marshal writes the object v as a message of type md. Message and enum
// types referenced by md are resolved in idx.
//
// Members of v that name no field of md are ignored, as are null members.
// A repeated field holding a non-array, or a map or message field holding a
// non-object, is skipped.
func (o MarshalOptions) Marshal(v jsontree.Value, md *schema.MessageDef, idx *schema.Index) ([]byte, error) {
	if v.Kind() != jsontree.Object {
		return nil, errors.Wrap(errors.ValueShape, "%s: top-level value must be an object, got %v", md.FullName, v.Kind())
	}
	e := encoder{o: o, idx: idx}
	p := wire.GetBuffer()
	defer wire.PutBuffer(p)
	if err := e.marshalMessage(p, v.Object(), md); err != nil {
		return nil, err
	}
	return append([]byte{}, p.Bytes()...), nil
}

type encoder struct {
	o   MarshalOptions
	idx *schema.Index
}

// lookup returns the member of m holding field fd.
func (e encoder) lookup(m *jsontree.Members, fd *schema.FieldDef) (jsontree.Value, bool) {
	if v, ok := m.Get(e.o.Naming.name(fd)); ok {
		return v, true
	}
	if e.o.StrictNames {
		return jsontree.Value{}, false
	}
	return m.Get(e.o.Naming.other(fd))
}

// marshalMessage appends the fields of md found in m to p.
func (e encoder) marshalMessage(p *wire.Buffer, m *jsontree.Members, md *schema.MessageDef) error {
	for _, fd := range md.Fields {
		v, ok := e.lookup(m, fd)
		if !ok {
			continue
		}
		if v.IsNull() && !nullIsValue(fd) {
			continue
		}
		var err error
		switch entry, isMap := e.idx.MapEntry(fd); {
		case isMap:
			err = e.marshalMap(p, v, fd, entry)
		case fd.Repeated:
			err = e.marshalList(p, v, fd)
		default:
			err = e.marshalField(p, v, fd)
		}
		if err != nil {
			return errors.New("%s.%s: %v", md.FullName, fd.Name, err)
		}
	}
	return nil
}

// nullIsValue reports whether a JSON null holds a value of fd rather than
// marking it absent.
func nullIsValue(fd *schema.FieldDef) bool {
	name := strings.TrimPrefix(fd.TypeName, ".")
	return !fd.Repeated && (name == valueName || name == wellknown.NullValueName)
}

func (e encoder) marshalList(p *wire.Buffer, v jsontree.Value, fd *schema.FieldDef) error {
	if v.Kind() != jsontree.Array {
		return nil
	}
	elems := v.Array()
	if e.o.Packed && fd.Kind.IsPackable() {
		if len(elems) == 0 {
			return nil
		}
		sub := wire.GetBuffer()
		defer wire.PutBuffer(sub)
		for _, elem := range elems {
			if err := e.marshalValue(sub, elem, fd); err != nil {
				return err
			}
		}
		p.EncodeTag(fd.Number, wire.BytesType)
		p.EncodeRawBytes(sub.Bytes())
		return nil
	}
	for _, elem := range elems {
		if err := e.marshalField(p, elem, fd); err != nil {
			return err
		}
	}
	return nil
}

// marshalMap writes one entry message per member of the object v.
func (e encoder) marshalMap(p *wire.Buffer, v jsontree.Value, fd *schema.FieldDef, entry *schema.MessageDef) error {
	if v.Kind() != jsontree.Object {
		return nil
	}
	keyFd, valFd := entry.FieldByNumber(1), entry.FieldByNumber(2)
	sub := wire.GetBuffer()
	defer wire.PutBuffer(sub)
	for _, mem := range v.Object().List() {
		sub.Reset()
		if err := e.marshalField(sub, jsontree.StringValue(mem.Name), keyFd); err != nil {
			return errors.New("map key %q: %v", mem.Name, err)
		}
		if !mem.Value.IsNull() || nullIsValue(valFd) {
			if err := e.marshalField(sub, mem.Value, valFd); err != nil {
				return errors.New("map value at %q: %v", mem.Name, err)
			}
		}
		p.EncodeTag(fd.Number, wire.BytesType)
		p.EncodeRawBytes(sub.Bytes())
	}
	return nil
}

// marshalField writes a single occurrence of fd holding v.
func (e encoder) marshalField(p *wire.Buffer, v jsontree.Value, fd *schema.FieldDef) error {
	switch fd.Kind {
	case schema.MessageKind:
		payload, ok, err := e.messagePayload(v, fd)
		if err != nil || !ok {
			return err
		}
		p.EncodeTag(fd.Number, wire.BytesType)
		p.EncodeRawBytes(payload)
		return nil
	case schema.GroupKind:
		if v.Kind() != jsontree.Object && !v.IsNull() {
			return nil
		}
		md, err := e.idx.GetMessage(fd.TypeName)
		if err != nil {
			return err
		}
		p.EncodeTag(fd.Number, wire.StartGroupType)
		if v.Kind() == jsontree.Object {
			if err := e.marshalMessage(p, v.Object(), md); err != nil {
				return err
			}
		}
		p.EncodeTag(fd.Number, wire.EndGroupType)
		return nil
	}
	p.EncodeTag(fd.Number, fd.Kind.WireType())
	return e.marshalValue(p, v, fd)
}

// marshalValue writes the untagged scalar or enum value v of fd.
func (e encoder) marshalValue(p *wire.Buffer, v jsontree.Value, fd *schema.FieldDef) error {
	if fd.Kind != schema.EnumKind {
		_, err := scalar.Encode(p, fd.Kind, v)
		return err
	}
	switch {
	case v.IsNull() && strings.TrimPrefix(fd.TypeName, ".") == wellknown.NullValueName:
		p.EncodeVarint(0)
		return nil
	case v.Kind() == jsontree.String:
		n, err := e.idx.ResolveEnum(fd.TypeName, v.Str())
		if err != nil {
			return err
		}
		p.EncodeVarint(uint64(n))
		return nil
	}
	_, err := scalar.Encode(p, schema.Int32Kind, v)
	return err
}

// messagePayload returns the encoded message held by v. It reports false if
// v does not hold a message and the field is to be skipped.
func (e encoder) messagePayload(v jsontree.Value, fd *schema.FieldDef) ([]byte, bool, error) {
	typeName := strings.TrimPrefix(fd.TypeName, ".")
	if c, ok := wellknown.Lookup(typeName); ok {
		b, err := c.FromJSON(v)
		return b, err == nil, err
	}
	if v.IsNull() {
		// Null elements of a repeated message field are empty messages.
		return []byte{}, true, nil
	}
	if v.Kind() != jsontree.Object {
		return nil, false, nil
	}
	if typeName == wellknown.AnyName {
		b, err := e.marshalAny(v.Object())
		return b, err == nil, err
	}
	md, err := e.idx.GetMessage(typeName)
	if err != nil {
		return nil, false, err
	}
	sub := wire.GetBuffer()
	defer wire.PutBuffer(sub)
	if err := e.marshalMessage(sub, v.Object(), md); err != nil {
		return nil, false, err
	}
	return append([]byte{}, sub.Bytes()...), true, nil
}
