// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
)

// Index maps fully-qualified names to message and enum definitions.
type Index struct {
	messages map[string]*MessageDef
	enums    map[string]*EnumDef

	// enumCache memoizes ResolveEnum: enumKey -> int32.
	enumCache sync.Map
}

type enumKey struct {
	typeName string
	literal  string
}

func buildIndex(files []*descriptorpb.FileDescriptorProto) (*Index, error) {
	x := &Index{
		messages: make(map[string]*MessageDef),
		enums:    make(map[string]*EnumDef),
	}
	seenFiles := make(map[string]bool)
	for _, fd := range files {
		if fd.GetName() != "" {
			if seenFiles[fd.GetName()] {
				continue // same file listed twice
			}
			seenFiles[fd.GetName()] = true
		}
		prefix := ""
		if pkg := fd.GetPackage(); pkg != "" {
			prefix = pkg + "."
		}
		for _, ed := range fd.GetEnumType() {
			if err := x.addEnum(prefix+ed.GetName(), ed); err != nil {
				return nil, err
			}
		}
		for _, md := range fd.GetMessageType() {
			if err := x.addMessage(prefix+md.GetName(), md); err != nil {
				return nil, err
			}
		}
	}
	return x, nil
}

func (x *Index) addEnum(name string, ed *descriptorpb.EnumDescriptorProto) error {
	if x.enums[name] != nil || x.messages[name] != nil {
		return errors.Wrap(errors.Schema, "duplicate type name %q", name)
	}
	def := &EnumDef{FullName: name}
	for _, v := range ed.GetValue() {
		def.Values = append(def.Values, EnumValue{Name: v.GetName(), Number: v.GetNumber()})
	}
	x.enums[name] = def
	return nil
}

func (x *Index) addMessage(name string, md *descriptorpb.DescriptorProto) error {
	if x.enums[name] != nil || x.messages[name] != nil {
		return errors.Wrap(errors.Schema, "duplicate type name %q", name)
	}
	def := &MessageDef{
		FullName:   name,
		IsMapEntry: md.GetOptions().GetMapEntry(),
		byNumber:   make(map[wire.Number]*FieldDef, len(md.GetField())),
	}
	for _, f := range md.GetField() {
		fd := &FieldDef{
			Number:         wire.Number(f.GetNumber()),
			Name:           f.GetName(),
			JSONName:       f.GetJsonName(),
			Kind:           Kind(f.GetType()),
			Repeated:       f.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED,
			TypeName:       f.GetTypeName(),
			OneofIndex:     -1,
			Proto3Optional: f.GetProto3Optional(),
		}
		if f.OneofIndex != nil {
			fd.OneofIndex = f.GetOneofIndex()
		}
		if fd.JSONName == "" {
			fd.JSONName = MakeJSONName(fd.Name)
		}
		if !fd.Number.IsValid() {
			return errors.Wrap(errors.Schema, "%s.%s: invalid field number %d", name, fd.Name, fd.Number)
		}
		if def.byNumber[fd.Number] != nil {
			return errors.Wrap(errors.Schema, "%s: duplicate field number %d", name, fd.Number)
		}
		def.byNumber[fd.Number] = fd
		def.Fields = append(def.Fields, fd)
	}
	if def.IsMapEntry && (def.byNumber[1] == nil || def.byNumber[2] == nil || len(def.Fields) != 2) {
		return errors.Wrap(errors.Schema, "%s: map entry must have exactly the fields key = 1 and value = 2", name)
	}
	x.messages[name] = def

	for _, ed := range md.GetEnumType() {
		if err := x.addEnum(name+"."+ed.GetName(), ed); err != nil {
			return err
		}
	}
	for _, nested := range md.GetNestedType() {
		if err := x.addMessage(name+"."+nested.GetName(), nested); err != nil {
			return err
		}
	}
	return nil
}

// MakeJSONName creates a JSON name from the protobuf short name by the rule
// protoc applies: underscores are dropped and a lowercase letter following
// an underscore is capitalized.
func MakeJSONName(s string) string {
	var b []byte
	var wasUnderscore bool
	for i := 0; i < len(s); i++ { // proto identifiers are always ASCII
		c := s[i]
		if c != '_' {
			if wasUnderscore && 'a' <= c && c <= 'z' {
				c -= 'a' - 'A'
			}
			b = append(b, c)
		}
		wasUnderscore = c == '_'
	}
	return string(b)
}

// GetMessage returns the message with the given fully-qualified name.
// A single leading dot is ignored.
func (x *Index) GetMessage(name string) (*MessageDef, error) {
	if md := x.TryGetMessage(name); md != nil {
		return md, nil
	}
	return nil, errors.Wrap(errors.TypeNotFound, "message %q not found", strings.TrimPrefix(name, "."))
}

// TryGetMessage is like GetMessage but returns nil if there is no such
// message.
func (x *Index) TryGetMessage(name string) *MessageDef {
	return x.messages[strings.TrimPrefix(name, ".")]
}

// GetEnum returns the enum with the given fully-qualified name.
// A single leading dot is ignored.
func (x *Index) GetEnum(name string) (*EnumDef, error) {
	if ed := x.enums[strings.TrimPrefix(name, ".")]; ed != nil {
		return ed, nil
	}
	return nil, errors.Wrap(errors.TypeNotFound, "enum %q not found", strings.TrimPrefix(name, "."))
}

// MapEntry returns the synthetic entry message of fd if fd is a map field.
func (x *Index) MapEntry(fd *FieldDef) (*MessageDef, bool) {
	if !fd.Repeated || fd.Kind != MessageKind {
		return nil, false
	}
	md := x.TryGetMessage(fd.TypeName)
	if md == nil || !md.IsMapEntry {
		return nil, false
	}
	return md, true
}

// ResolveEnum returns the number of the symbol literal in the enum typeName.
// If no symbol matches, literal is parsed as a decimal int32. Successful
// resolutions are remembered for the lifetime of x.
func (x *Index) ResolveEnum(typeName, literal string) (int32, error) {
	key := enumKey{strings.TrimPrefix(typeName, "."), literal}
	if n, ok := x.enumCache.Load(key); ok {
		return n.(int32), nil
	}
	ed, err := x.GetEnum(key.typeName)
	if err != nil {
		return 0, err
	}
	n, ok := ed.NumberOf(literal)
	if !ok {
		v, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return 0, errors.Wrap(errors.InvalidEnumLiteral, "invalid value %q for enum %s", literal, ed.FullName)
		}
		n = int32(v)
	}
	x.enumCache.Store(key, n)
	return n, nil
}

// MessageNames returns the fully-qualified names of all messages, sorted.
// Map entry messages are omitted.
func (x *Index) MessageNames() []string {
	names := make([]string, 0, len(x.messages))
	for name, md := range x.messages {
		if !md.IsMapEntry {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
