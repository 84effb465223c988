// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/testprotos"
	"github.com/protobridge/protobridge/reflect/schema"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind     schema.Kind
		name     string
		wireType wire.Type
		packable bool
	}{
		{0, "<unknown:0>", wire.None, false},
		{schema.DoubleKind, "double", wire.Fixed64Type, true},
		{schema.FloatKind, "float", wire.Fixed32Type, true},
		{schema.Int64Kind, "int64", wire.VarintType, true},
		{schema.StringKind, "string", wire.BytesType, false},
		{schema.GroupKind, "group", wire.StartGroupType, false},
		{schema.MessageKind, "message", wire.BytesType, false},
		{schema.BytesKind, "bytes", wire.BytesType, false},
		{schema.EnumKind, "enum", wire.VarintType, true},
		{schema.Sfixed32Kind, "sfixed32", wire.Fixed32Type, true},
		{schema.Sint64Kind, "sint64", wire.VarintType, true},
		{19, "<unknown:19>", wire.None, false},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.name)
		}
		if got := tt.kind.WireType(); got != tt.wireType {
			t.Errorf("Kind(%d).WireType() = %v, want %v", tt.kind, got, tt.wireType)
		}
		if got := tt.kind.IsPackable(); got != tt.packable {
			t.Errorf("Kind(%d).IsPackable() = %v, want %v", tt.kind, got, tt.packable)
		}
	}
}

func TestMakeJSONName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"user_name", "userName"},
		{"name", "name"},
		{"_leading", "Leading"},
		{"double__under", "doubleUnder"},
		{"f_int64", "fInt64"},
		{"with_9digit", "with9digit"},
		{"Already_Camel", "AlreadyCamel"},
	}
	for _, tt := range tests {
		if got := schema.MakeJSONName(tt.in); got != tt.want {
			t.Errorf("MakeJSONName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	_, x := testprotos.Load(t)

	for _, name := range []string{
		"protobridge.test.Scalars",
		".protobridge.test.Scalars",
		"protobridge.test.Nested.Deep",
		".google.protobuf.Timestamp",
	} {
		if _, err := x.GetMessage(name); err != nil {
			t.Errorf("GetMessage(%q) error: %v", name, err)
		}
	}
	for _, name := range []string{
		"protobridge.test.Color",
		".protobridge.test.Nested.Deep.Level",
		"google.protobuf.NullValue",
	} {
		if _, err := x.GetEnum(name); err != nil {
			t.Errorf("GetEnum(%q) error: %v", name, err)
		}
	}

	for _, name := range []string{"Scalars", "..protobridge.test.Scalars", "protobridge.test.Color", "protobridge.test.Missing"} {
		_, err := x.GetMessage(name)
		if !errors.Is(err, errors.TypeNotFound) {
			t.Errorf("GetMessage(%q) = %v, want TypeNotFound", name, err)
		}
		if md := x.TryGetMessage(name); md != nil {
			t.Errorf("TryGetMessage(%q) = %v, want nil", name, md.FullName)
		}
	}
	if _, err := x.GetEnum("protobridge.test.Scalars"); !errors.Is(err, errors.TypeNotFound) {
		t.Errorf("GetEnum(message name) = %v, want TypeNotFound", err)
	}
}

func TestMessageDef(t *testing.T) {
	_, x := testprotos.Load(t)

	names := testprotos.Message(t, x, "Names")
	want := []*schema.FieldDef{{
		Number:     1,
		Name:       "user_name",
		JSONName:   "userName",
		Kind:       schema.StringKind,
		OneofIndex: -1,
	}, {
		Number:     2,
		Name:       "item_count",
		JSONName:   "count",
		Kind:       schema.Int32Kind,
		OneofIndex: -1,
	}}
	if diff := cmp.Diff(want, names.Fields); diff != "" {
		t.Errorf("Names fields mismatch (-want +got):\n%s", diff)
	}
	if fd := names.FieldByNumber(2); fd == nil || fd.Name != "item_count" {
		t.Errorf("FieldByNumber(2) = %v", fd)
	}
	if fd := names.FieldByNumber(3); fd != nil {
		t.Errorf("FieldByNumber(3) = %v, want nil", fd)
	}

	choice := testprotos.Message(t, x, "Choice")
	if fd := choice.FieldByNumber(1); fd.OneofIndex != 0 || fd.Proto3Optional {
		t.Errorf("Choice.text = %+v, want member of oneof 0", fd)
	}
	if fd := choice.FieldByNumber(4); !fd.Proto3Optional || fd.OneofIndex < 0 {
		t.Errorf("Choice.maybe = %+v, want proto3 optional", fd)
	}

	maps := testprotos.Message(t, x, "Maps")
	settings := maps.FieldByNumber(1)
	entry, ok := x.MapEntry(settings)
	if !ok || !entry.IsMapEntry || len(entry.Fields) != 2 {
		t.Fatalf("MapEntry(settings) = %v, %v", entry, ok)
	}
	if entry.FieldByNumber(1).Name != "key" || entry.FieldByNumber(2).Name != "value" {
		t.Errorf("map entry fields = %v", entry.Fields)
	}
	if _, ok := x.MapEntry(testprotos.Message(t, x, "Repeats").FieldByNumber(6)); ok {
		t.Error("MapEntry(repeated message) reported a map")
	}
	for _, name := range x.MessageNames() {
		if md := x.TryGetMessage(name); md.IsMapEntry {
			t.Errorf("MessageNames() includes map entry %s", name)
		}
	}
}

func TestEnumDef(t *testing.T) {
	_, x := testprotos.Load(t)
	alias, err := x.GetEnum("protobridge.test.Alias")
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := alias.NameOf(1); !ok || name != "FIRST" {
		t.Errorf("NameOf(1) = %q, %v; want FIRST", name, ok)
	}
	if _, ok := alias.NameOf(7); ok {
		t.Error("NameOf(7) found a name")
	}
	if n, ok := alias.NumberOf("SECOND"); !ok || n != 1 {
		t.Errorf("NumberOf(SECOND) = %d, %v; want 1", n, ok)
	}
	if _, ok := alias.NumberOf("second"); ok {
		t.Error("NumberOf is not case-sensitive")
	}
}

func TestResolveEnum(t *testing.T) {
	_, x := testprotos.Load(t)
	tests := []struct {
		typeName string
		literal  string
		want     int32
		wantErr  error
	}{
		{".protobridge.test.Color", "GREEN", 2, nil},
		{"protobridge.test.Color", "GREEN", 2, nil},
		{".protobridge.test.Color", "7", 7, nil},
		{".protobridge.test.Color", "-1", -1, nil},
		{".protobridge.test.Color", "green", 0, errors.InvalidEnumLiteral},
		{".protobridge.test.Color", "99999999999", 0, errors.InvalidEnumLiteral},
		{".protobridge.test.Alias", "SECOND", 1, nil},
		{".protobridge.test.Nope", "X", 0, errors.TypeNotFound},
	}
	for i := 0; i < 2; i++ { // second pass is served from the cache
		for _, tt := range tests {
			got, err := x.ResolveEnum(tt.typeName, tt.literal)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ResolveEnum(%q, %q) = %v, want %v", tt.typeName, tt.literal, err, tt.wantErr)
				}
				continue
			}
			if err != nil || got != tt.want {
				t.Errorf("ResolveEnum(%q, %q) = %d, %v; want %d", tt.typeName, tt.literal, got, err, tt.want)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, b := range [][]byte{
		nil,
		{0x0a, 0x05, 0x01},       // truncated file entry
		{0xff, 0xff, 0xff, 0xff}, // bad tag
	} {
		if _, err := schema.Parse(b); !errors.Is(err, errors.Schema) {
			t.Errorf("Parse(%x) = %v, want schema error", b, err)
		}
	}
}

func TestIndexValidation(t *testing.T) {
	field := func(name string, num int32) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(num),
			Type:   descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}
	}
	tests := []struct {
		desc string
		file *descriptorpb.FileDescriptorProto
	}{{
		desc: "duplicate field number",
		file: &descriptorpb.FileDescriptorProto{
			Name: proto.String("a.proto"),
			MessageType: []*descriptorpb.DescriptorProto{{
				Name:  proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{field("a", 1), field("b", 1)},
			}},
		},
	}, {
		desc: "invalid field number",
		file: &descriptorpb.FileDescriptorProto{
			Name: proto.String("a.proto"),
			MessageType: []*descriptorpb.DescriptorProto{{
				Name:  proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{field("a", 0)},
			}},
		},
	}, {
		desc: "duplicate type name",
		file: &descriptorpb.FileDescriptorProto{
			Name:        proto.String("a.proto"),
			Package:     proto.String("p"),
			MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("M")}},
			EnumType:    []*descriptorpb.EnumDescriptorProto{{Name: proto.String("M")}},
		},
	}, {
		desc: "malformed map entry",
		file: &descriptorpb.FileDescriptorProto{
			Name: proto.String("a.proto"),
			MessageType: []*descriptorpb.DescriptorProto{{
				Name:    proto.String("Entry"),
				Field:   []*descriptorpb.FieldDescriptorProto{field("key", 1)},
				Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
			}},
		},
	}}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			b, err := proto.Marshal(&descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{tt.file}})
			if err != nil {
				t.Fatal(err)
			}
			d, err := schema.Parse(b)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if _, err := d.Index(); !errors.Is(err, errors.Schema) {
				t.Errorf("Index() = %v, want schema error", err)
			}
		})
	}
}

func TestIndexNoPackage(t *testing.T) {
	set := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{{
		Name:        proto.String("a.proto"),
		MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("Top")}},
	}, {
		Name:        proto.String("a.proto"), // listed twice
		MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("Top")}},
	}}}
	d, err := schema.New(set)
	if err != nil {
		t.Fatal(err)
	}
	x, err := d.Index()
	if err != nil {
		t.Fatalf("Index() error: %v", err)
	}
	if diff := cmp.Diff([]string{"Top"}, x.MessageNames()); diff != "" {
		t.Errorf("MessageNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexConcurrentFirstUse(t *testing.T) {
	d, _ := schema.Parse(testprotos.Compile(t))
	const n = 16
	got := make([]*schema.Index, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = d.Index()
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("Index() returned distinct indexes")
		}
	}

	// Two descriptors from identical bytes have independent indexes.
	d2, _ := schema.Parse(testprotos.Compile(t))
	x2, _ := d2.Index()
	if x2 == got[0] {
		t.Error("distinct descriptors share an index")
	}
	if diff := cmp.Diff(got[0].MessageNames(), x2.MessageNames(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("indexes differ (-first +second):\n%s", diff)
	}
}
