// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protodyn

import (
	"encoding/base64"
	"strings"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/scalar"
	"github.com/protobridge/protobridge/internal/wellknown"
	"github.com/protobridge/protobridge/reflect/schema"
)

// maxDepth bounds the nesting of messages in a binary input.
const maxDepth = 10000

// Unmarshal reads the binary message b of type md using default options.
func Unmarshal(b []byte, md *schema.MessageDef, idx *schema.Index) (jsontree.Value, error) {
	return UnmarshalOptions{}.Unmarshal(b, md, idx)
}

// UnmarshalOptions is a configurable binary to value tree unmarshaler.
type UnmarshalOptions struct {
	// Naming selects the member names of output objects.
	Naming FieldNaming

	// CanonicalInt64 renders 64-bit integer fields as JSON strings.
	// By default they are JSON numbers.
	CanonicalInt64 bool
}

// Unmarshal reads the binary message b of type md into an object.
//
// Fields unknown to md are skipped, as are fields whose wire type does not
// match their declaration. Only fields present in b appear in the output,
// in order of first appearance. For a singular field the last occurrence
// wins, and setting a member of a oneof clears the other members.
func (o UnmarshalOptions) Unmarshal(b []byte, md *schema.MessageDef, idx *schema.Index) (jsontree.Value, error) {
	d := decoder{o: o, idx: idx}
	m, err := d.unmarshalMessage(b, md, 0)
	if err != nil {
		return jsontree.Value{}, err
	}
	return jsontree.ObjectValue(m), nil
}

type decoder struct {
	o   UnmarshalOptions
	idx *schema.Index
}

// fieldState accumulates the decoded occurrences of one field.
type fieldState struct {
	fd    *schema.FieldDef
	value jsontree.Value
	list  []jsontree.Value
	keys  *jsontree.Members
	unset bool // cleared by another member of its oneof
}

func (d decoder) unmarshalMessage(b []byte, md *schema.MessageDef, depth int) (*jsontree.Members, error) {
	if depth > maxDepth {
		return nil, errors.New("%s: exceeded maximum nesting depth", md.FullName)
	}
	var order []*fieldState
	seen := map[wire.Number]*fieldState{}

	p := wire.NewBuffer(b)
	for !p.EOF() {
		num, typ, err := p.DecodeTag()
		if err != nil {
			return nil, errors.New("%s: %v", md.FullName, err)
		}
		fd := md.FieldByNumber(num)
		if fd == nil || !d.wireTypeMatches(fd, typ) {
			if err := p.SkipField(num, typ); err != nil {
				return nil, errors.New("%s: %v", md.FullName, err)
			}
			continue
		}

		fs := seen[num]
		if fs == nil {
			fs = &fieldState{fd: fd}
			seen[num] = fs
			order = append(order, fs)
		}
		if err := d.unmarshalField(p, typ, fs, depth); err != nil {
			return nil, errors.New("%s.%s: %v", md.FullName, fd.Name, err)
		}
		if fd.OneofIndex >= 0 && !fd.Repeated {
			fs.unset = false
			for _, other := range order {
				if other != fs && other.fd.OneofIndex == fd.OneofIndex {
					other.unset = true
				}
			}
		}
	}

	m := jsontree.NewMembers()
	for _, fs := range order {
		if fs.unset {
			continue
		}
		name := d.o.Naming.name(fs.fd)
		switch {
		case fs.keys != nil:
			m.Set(name, jsontree.ObjectValue(fs.keys))
		case fs.fd.Repeated:
			m.Set(name, jsontree.ArrayValue(fs.list...))
		default:
			m.Set(name, fs.value)
		}
	}
	return m, nil
}

// wireTypeMatches reports whether a field occurrence of wire type typ can
// hold a value of fd.
func (d decoder) wireTypeMatches(fd *schema.FieldDef, typ wire.Type) bool {
	if typ == fd.Kind.WireType() {
		return true
	}
	return fd.Repeated && fd.Kind.IsPackable() && typ == wire.BytesType
}

func (d decoder) unmarshalField(p *wire.Buffer, typ wire.Type, fs *fieldState, depth int) error {
	fd := fs.fd
	if entry, ok := d.idx.MapEntry(fd); ok {
		b, err := p.DecodeRawBytes(false)
		if err != nil {
			return err
		}
		if fs.keys == nil {
			fs.keys = jsontree.NewMembers()
		}
		key, val, err := d.unmarshalMapEntry(b, entry, depth+1)
		if err != nil {
			return err
		}
		fs.keys.Set(key, val)
		return nil
	}

	if fd.Repeated && typ == wire.BytesType && fd.Kind.IsPackable() {
		b, err := p.DecodeRawBytes(false)
		if err != nil {
			return err
		}
		packed := wire.NewBuffer(b)
		for !packed.EOF() {
			v, err := d.unmarshalValue(packed, fd, depth)
			if err != nil {
				return err
			}
			fs.list = append(fs.list, v)
		}
		if fs.list == nil {
			fs.list = []jsontree.Value{}
		}
		return nil
	}

	v, err := d.unmarshalValue(p, fd, depth)
	if err != nil {
		return err
	}
	if fd.Repeated {
		fs.list = append(fs.list, v)
	} else {
		fs.value = v
	}
	return nil
}

// unmarshalValue reads a single value of fd whose tag has been consumed.
func (d decoder) unmarshalValue(p *wire.Buffer, fd *schema.FieldDef, depth int) (jsontree.Value, error) {
	switch fd.Kind {
	case schema.EnumKind:
		x, err := p.DecodeVarint32()
		if err != nil {
			return jsontree.Value{}, err
		}
		return d.enumValue(fd, int32(x))
	case schema.MessageKind:
		b, err := p.DecodeRawBytes(false)
		if err != nil {
			return jsontree.Value{}, err
		}
		return d.messageValue(b, fd, depth+1)
	case schema.GroupKind:
		b, err := groupBody(p, fd.Number)
		if err != nil {
			return jsontree.Value{}, err
		}
		md, err := d.idx.GetMessage(fd.TypeName)
		if err != nil {
			return jsontree.Value{}, err
		}
		m, err := d.unmarshalMessage(b, md, depth+1)
		if err != nil {
			return jsontree.Value{}, err
		}
		return jsontree.ObjectValue(m), nil
	}
	return scalar.Decode(p, fd.Kind, d.o.CanonicalInt64)
}

// enumValue returns the symbol for n, or n itself if the enum declares no
// such number.
func (d decoder) enumValue(fd *schema.FieldDef, n int32) (jsontree.Value, error) {
	if strings.TrimPrefix(fd.TypeName, ".") == wellknown.NullValueName {
		return jsontree.NullValue(), nil
	}
	ed, err := d.idx.GetEnum(fd.TypeName)
	if err != nil {
		return jsontree.Value{}, err
	}
	if name, ok := ed.NameOf(n); ok {
		return jsontree.StringValue(name), nil
	}
	return jsontree.Int32Value(n), nil
}

// messageValue decodes the payload b of a message field.
func (d decoder) messageValue(b []byte, fd *schema.FieldDef, depth int) (jsontree.Value, error) {
	typeName := strings.TrimPrefix(fd.TypeName, ".")
	if c, ok := wellknown.Lookup(typeName); ok {
		return c.ToJSON(b)
	}
	if typeName == wellknown.AnyName {
		return d.unmarshalAny(b, depth)
	}
	md, err := d.idx.GetMessage(typeName)
	if err != nil {
		return jsontree.Value{}, err
	}
	m, err := d.unmarshalMessage(b, md, depth)
	if err != nil {
		return jsontree.Value{}, err
	}
	return jsontree.ObjectValue(m), nil
}

// unmarshalMapEntry decodes a map entry into its JSON key and value.
// A missing key yields the empty string and a missing value the default of
// the value field.
func (d decoder) unmarshalMapEntry(b []byte, entry *schema.MessageDef, depth int) (string, jsontree.Value, error) {
	keyFd, valFd := entry.FieldByNumber(1), entry.FieldByNumber(2)
	var key string
	var val jsontree.Value
	var hasVal bool

	p := wire.NewBuffer(b)
	for !p.EOF() {
		num, typ, err := p.DecodeTag()
		if err != nil {
			return "", jsontree.Value{}, err
		}
		switch {
		case num == 1 && typ == keyFd.Kind.WireType():
			k, err := scalar.Decode(p, keyFd.Kind, false)
			if err != nil {
				return "", jsontree.Value{}, err
			}
			key = mapKeyString(k)
		case num == 2 && typ == valFd.Kind.WireType():
			v, err := d.unmarshalValue(p, valFd, depth)
			if err != nil {
				return "", jsontree.Value{}, err
			}
			val, hasVal = v, true
		default:
			if err := p.SkipField(num, typ); err != nil {
				return "", jsontree.Value{}, err
			}
		}
	}
	if !hasVal {
		v, err := d.defaultValue(valFd, depth)
		if err != nil {
			return "", jsontree.Value{}, err
		}
		val = v
	}
	return key, val, nil
}

// defaultValue returns the JSON value of an unset fd.
func (d decoder) defaultValue(fd *schema.FieldDef, depth int) (jsontree.Value, error) {
	switch fd.Kind {
	case schema.EnumKind:
		return d.enumValue(fd, 0)
	case schema.MessageKind:
		return d.messageValue(nil, fd, depth)
	}
	return scalar.Default(fd.Kind, d.o.CanonicalInt64), nil
}

// mapKeyString returns the JSON object key for the map key v.
func mapKeyString(v jsontree.Value) string {
	switch v.Kind() {
	case jsontree.String:
		return v.Str()
	case jsontree.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case jsontree.Bytes:
		return base64.StdEncoding.EncodeToString(v.Bytes())
	case jsontree.Null:
		return ""
	}
	// Integer keys print exactly as their JSON literal.
	b, _ := jsontree.Marshal(v)
	return string(b)
}

// groupBody returns the contents of the group field num whose start marker
// has been consumed, and advances p past the end marker.
func groupBody(p *wire.Buffer, num wire.Number) ([]byte, error) {
	start := p.Unread()
	if err := p.SkipField(num, wire.StartGroupType); err != nil {
		return nil, err
	}
	n := len(start) - len(p.Unread()) - wire.SizeVarint(wire.EncodeTag(num, wire.EndGroupType))
	return start[:n], nil
}
