// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protodyn_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/protobridge/protobridge/compiler"
	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/encoding/protodyn"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/internal/testprotos"
	"github.com/protobridge/protobridge/reflect/schema"
)

func parse(t *testing.T, s string) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%s): %v", s, err)
	}
	return v
}

func text(v jsontree.Value) string {
	b, _ := jsontree.Marshal(v)
	return string(b)
}

type roundTrip struct {
	desc    string
	message string
	json    string
	// conformant marks inputs whose decoded form matches the canonical
	// proto3 JSON of the same binary.
	conformant bool
}

var roundTrips = []roundTrip{{
	desc:    "scalars",
	message: "Scalars",
	json: `{"fDouble":1.5,"fFloat":0.25,"fInt64":-5,"fUint64":18446744073709551615,` +
		`"fInt32":-7,"fFixed64":9,"fFixed32":10,"fBool":true,"fString":"héllo",` +
		`"fBytes":"AQID","fUint32":4294967295,"fEnum":"BLUE","fSfixed32":-3,` +
		`"fSfixed64":-4,"fSint32":-100,"fSint64":-9223372036854775808,"fAlias":"FIRST"}`,
	conformant: true,
}, {
	desc:    "non-finite floats",
	message: "Scalars",
	json:    `{"fDouble":"NaN","fFloat":"-Infinity"}`,
	conformant: true,
}, {
	desc:    "repeats",
	message: "Repeats",
	json: `{"numbers":[1,2,3],"names":["a","b"],"deltas":[-1,1],"ratios":[0.5],` +
		`"colors":["RED",7],"items":[{"id":1},{"label":"x"}],"blobs":["AA=="],` +
		`"checksums":[1],"flags":[true,false]}`,
	conformant: true,
}, {
	desc:       "nested",
	message:    "Nested",
	json:       `{"id":1,"label":"a","child":{"id":2,"deep":{"level":"HIGH"}}}`,
	conformant: true,
}, {
	desc:    "maps",
	message: "Maps",
	json: `{"settings":{"timezone":"UTC","mode":"auto"},"byId":{"1":{"id":1},"-2":{}},` +
		`"flags":{"true":"RED","false":"BLUE"},"blobs":{"-9":"AQ=="},` +
		`"times":{"7":"1970-01-01T00:00:01Z"},"signed":{"-3":"x"}}`,
	conformant: true,
}, {
	desc:       "names",
	message:    "Names",
	json:       `{"userName":"a","count":2}`,
	conformant: true,
}, {
	desc:       "oneof and optional",
	message:    "Choice",
	json:       `{"nested":{"id":4},"maybe":0}`,
	conformant: true,
}, {
	desc:    "well-known types",
	message: "WellKnown",
	json: `{"created":"2020-01-01T00:00:00Z","ttl":"1.500s","s":"x","i64":"12","b":true,` +
		`"d":1.5,"raw":"AQ==","u32":7,"meta":{"a":[1,"b",null]},"anyValue":{"k":true},` +
		`"list":[1,2],"mask":"fooBar","nothing":{},` +
		`"payload":{"@type":"type.googleapis.com/protobridge.test.Nested","id":3},` +
		`"history":["1970-01-01T00:00:00Z"],"f":0.5,"u64":"9","i32":-1}`,
	conformant: true,
}, {
	desc:    "any holding a well-known type",
	message: "WellKnown",
	json:    `{"payload":{"@type":"type.googleapis.com/google.protobuf.Duration","value":"1s"}}`,
	conformant: true,
}, {
	desc:    "null values",
	message: "WellKnown",
	json:    `{"anyValue":null,"nullValue":null}`,
}}

func TestRoundTrip(t *testing.T) {
	_, idx := testprotos.Load(t)
	for _, tt := range roundTrips {
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			in := parse(t, tt.json)
			b, err := protodyn.Marshal(in, md, idx)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := protodyn.Unmarshal(b, md, idx)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !got.Equal(in) {
				t.Errorf("round trip mismatch:\ngot  %s\nwant %s", text(got), tt.json)
			}
			b2, err := protodyn.Marshal(got, md, idx)
			if err != nil {
				t.Fatalf("second Marshal: %v", err)
			}
			if diff := cmp.Diff(b, b2); diff != "" {
				t.Errorf("re-encoding mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

// canonicalJSON decodes b as a message of the given name with the protobuf
// runtime and formats it with protojson.
func canonicalJSON(t *testing.T, set []byte, name string, b []byte) jsontree.Value {
	t.Helper()
	fds := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(set, fds); err != nil {
		t.Fatal(err)
	}
	files, err := protodesc.NewFiles(fds)
	if err != nil {
		t.Fatalf("protodesc.NewFiles: %v", err)
	}
	d, err := files.FindDescriptorByName(protoreflect.FullName(name))
	if err != nil {
		t.Fatal(err)
	}
	types := dynamicpb.NewTypes(files)
	m := dynamicpb.NewMessage(d.(protoreflect.MessageDescriptor))
	if err := (proto.UnmarshalOptions{Resolver: types}).Unmarshal(b, m); err != nil {
		t.Fatalf("proto.Unmarshal: %v", err)
	}
	out, err := protojson.MarshalOptions{Resolver: types}.Marshal(m)
	if err != nil {
		t.Fatalf("protojson.Marshal: %v", err)
	}
	return parse(t, string(out))
}

func TestConformance(t *testing.T) {
	set := testprotos.Compile(t)
	d, err := schema.Parse(set)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := d.Index()
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range roundTrips {
		if !tt.conformant {
			continue
		}
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			b, err := protodyn.Marshal(parse(t, tt.json), md, idx)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			want := canonicalJSON(t, set, md.FullName, b)
			got, err := protodyn.UnmarshalOptions{CanonicalInt64: true}.Unmarshal(b, md, idx)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("output differs from protojson:\ngot  %s\nwant %s", text(got), text(want))
			}
		})
	}
}

func TestUnpackedRepeats(t *testing.T) {
	_, idx := testprotos.Load(t)
	md := testprotos.Message(t, idx, "Event")
	in := parse(t, `{"numbers":[1,2,3]}`)

	b, err := protodyn.Marshal(in, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x08, 1, 0x08, 2, 0x08, 3}, b); diff != "" {
		t.Errorf("unpacked mismatch (-want +got):\n%s", diff)
	}

	packed, err := protodyn.MarshalOptions{Packed: true}.Marshal(in, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x0a, 3, 1, 2, 3}, packed); diff != "" {
		t.Errorf("packed mismatch (-want +got):\n%s", diff)
	}

	for _, b := range [][]byte{b, packed} {
		got, err := protodyn.Unmarshal(b, md, idx)
		if err != nil {
			t.Fatal(err)
		}
		if text(got) != `{"numbers":[1,2,3]}` {
			t.Errorf("Unmarshal(%x) = %s", b, text(got))
		}
	}
}

func TestMapEncoding(t *testing.T) {
	_, idx := testprotos.Load(t)
	md := testprotos.Message(t, idx, "Event")
	in := parse(t, `{"settings":{"timezone":"UTC","mode":"auto"}}`)
	b, err := protodyn.Marshal(in, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	var want []byte
	want = append(want, 0x12, 15, 0x0a, 8)
	want = append(want, "timezone"...)
	want = append(want, 0x12, 3)
	want = append(want, "UTC"...)
	want = append(want, 0x12, 12, 0x0a, 4)
	want = append(want, "mode"...)
	want = append(want, 0x12, 4)
	want = append(want, "auto"...)
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
	got, err := protodyn.Unmarshal(b, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(in) {
		t.Errorf("Unmarshal = %s", text(got))
	}
}

func TestUnmarshalLargeMap(t *testing.T) {
	_, idx := testprotos.Load(t)
	md := testprotos.Message(t, idx, "Event")
	const n = 100000
	var b []byte
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("key%d", i)
		b = append(b, 0x12, byte(2+len(k)+3), 0x0a, byte(len(k)))
		b = append(b, k...)
		b = append(b, 0x12, 1, 'v')
	}
	start := time.Now()
	got, err := protodyn.Unmarshal(b, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d > 10*time.Second {
		t.Errorf("Unmarshal of %d map entries took %v", n, d)
	}
	settings, ok := got.Object().Get("settings")
	if !ok {
		t.Fatalf("Unmarshal = %s, missing settings", text(got))
	}
	if l := settings.Object().Len(); l != n {
		t.Errorf("settings has %d entries, want %d", l, n)
	}
}

func TestUnmarshal(t *testing.T) {
	_, idx := testprotos.Load(t)
	tests := []struct {
		desc    string
		message string
		opts    protodyn.UnmarshalOptions
		in      []byte
		want    string
	}{{
		desc:    "unknown fields are skipped",
		message: "Small",
		// Nested{id: 5, label: "x", child: {id: 1}, deep: {}}
		in:   []byte{0x08, 0x05, 0x12, 0x01, 'x', 0x1a, 0x02, 0x08, 0x01, 0x22, 0x00},
		want: `{"id":5}`,
	}, {
		desc:    "unknown enum number",
		message: "Scalars",
		in:      []byte{0x70, 0x63},
		want:    `{"fEnum":99}`,
	}, {
		desc:    "alias resolves to first symbol",
		message: "Scalars",
		in:      []byte{0x98, 0x01, 0x01},
		want:    `{"fAlias":"FIRST"}`,
	}, {
		desc:    "mismatched wire type is skipped",
		message: "Scalars",
		in:      []byte{0x2d, 1, 2, 3, 4, 0x28, 0x07},
		want:    `{"fInt32":7}`,
	}, {
		desc:    "last singular occurrence wins",
		message: "Scalars",
		in:      []byte{0x28, 0x01, 0x4a, 0x01, 'a', 0x28, 0x02},
		want:    `{"fInt32":2,"fString":"a"}`,
	}, {
		desc:    "oneof last member wins",
		message: "Choice",
		in:      []byte{0x0a, 0x02, 'h', 'i', 0x10, 0x05},
		want:    `{"number":5}`,
	}, {
		desc:    "oneof member set again",
		message: "Choice",
		in:      []byte{0x0a, 0x01, 'a', 0x10, 0x05, 0x0a, 0x01, 'b'},
		want:    `{"text":"b"}`,
	}, {
		desc:    "packed and unpacked mixed",
		message: "Repeats",
		in:      []byte{0x2a, 0x02, 0x01, 0x02, 0x28, 0x03, 0x1a, 0x02, 0x01, 0x02},
		want:    `{"colors":["RED","GREEN","BLUE"],"deltas":[-1,1]}`,
	}, {
		desc:    "empty packed run",
		message: "Repeats",
		in:      []byte{0x0a, 0x00},
		want:    `{"numbers":[]}`,
	}, {
		desc:    "map entries with missing key or value",
		message: "Maps",
		in: []byte{
			0x0a, 0x03, 0x0a, 0x01, 'k',
			0x12, 0x02, 0x08, 0x01,
			0x1a, 0x00,
			0x2a, 0x02, 0x08, 0x07,
		},
		want: `{"settings":{"k":""},"byId":{"1":{}},"flags":{"":"COLOR_UNSPECIFIED"},"times":{"7":"1970-01-01T00:00:00Z"}}`,
	}, {
		desc:    "duplicate map keys keep the last value",
		message: "Event",
		in: []byte{
			0x12, 0x06, 0x0a, 0x01, 'k', 0x12, 0x01, 'a',
			0x12, 0x06, 0x0a, 0x01, 'k', 0x12, 0x01, 'b',
		},
		want: `{"settings":{"k":"b"}}`,
	}, {
		desc:    "proto names",
		message: "Names",
		opts:    protodyn.UnmarshalOptions{Naming: protodyn.ProtoName},
		in:      []byte{0x0a, 0x01, 'a', 0x10, 0x02},
		want:    `{"user_name":"a","item_count":2}`,
	}, {
		desc:    "json names",
		message: "Names",
		in:      []byte{0x0a, 0x01, 'a', 0x10, 0x02},
		want:    `{"userName":"a","count":2}`,
	}, {
		desc:    "canonical int64",
		message: "Scalars",
		opts:    protodyn.UnmarshalOptions{CanonicalInt64: true},
		in:      []byte{0x18, 0x05, 0x20, 0x06, 0x31, 7, 0, 0, 0, 0, 0, 0, 0, 0x28, 0x08},
		want:    `{"fInt64":"5","fUint64":"6","fFixed64":"7","fInt32":8}`,
	}, {
		desc:    "empty any",
		message: "WellKnown",
		in:      []byte{0x72, 0x00},
		want:    `{"payload":{}}`,
	}, {
		desc:    "empty value is null",
		message: "WellKnown",
		in:      []byte{0x52, 0x00, 0x78, 0x00},
		want:    `{"anyValue":null,"nullValue":null}`,
	}}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			got, err := tt.opts.Unmarshal(tt.in, md, idx)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if text(got) != tt.want {
				t.Errorf("Unmarshal = %s, want %s", text(got), tt.want)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	_, idx := testprotos.Load(t)
	tests := []struct {
		desc    string
		message string
		in      []byte
		wantErr error
	}{
		{desc: "truncated varint", message: "Scalars", in: []byte{0x28, 0x80}},
		{desc: "truncated bytes", message: "Scalars", in: []byte{0x4a, 0x05, 'a'}},
		{desc: "invalid field number", message: "Scalars", in: []byte{0x00, 0x01}},
		{desc: "bad nested message", message: "Nested", in: []byte{0x1a, 0x02, 0x08, 0x80}},
		{
			desc:    "any with unknown type",
			message: "WellKnown",
			in:      append([]byte{0x72, 0x10, 0x0a, 0x0e}, "x.y/pkg.Absent"...),
			wantErr: errors.TypeNotFound,
		},
		{
			desc:    "timestamp out of range",
			message: "WellKnown",
			in:      []byte{0x0a, 0x06, 0x10, 0x80, 0x94, 0xeb, 0xdc, 0x03},
			wantErr: errors.ValueShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			_, err := protodyn.Unmarshal(tt.in, md, idx)
			if err == nil {
				t.Fatal("Unmarshal succeeded, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Unmarshal error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	_, idx := testprotos.Load(t)
	tests := []struct {
		desc    string
		message string
		opts    protodyn.MarshalOptions
		in      string
		want    []byte
	}{{
		desc:    "proto name accepted by default",
		message: "Names",
		in:      `{"user_name":"a","item_count":2}`,
		want:    []byte{0x0a, 0x01, 'a', 0x10, 0x02},
	}, {
		desc:    "names are case-insensitive",
		message: "Names",
		in:      `{"USERNAME":"a","Count":2}`,
		want:    []byte{0x0a, 0x01, 'a', 0x10, 0x02},
	}, {
		desc:    "strict json names",
		message: "Names",
		opts:    protodyn.MarshalOptions{StrictNames: true},
		in:      `{"user_name":"a","count":2}`,
		want:    []byte{0x10, 0x02},
	}, {
		desc:    "strict proto names",
		message: "Names",
		opts:    protodyn.MarshalOptions{Naming: protodyn.ProtoName, StrictNames: true},
		in:      `{"user_name":"a","count":2}`,
		want:    []byte{0x0a, 0x01, 'a'},
	}, {
		desc:    "null and unknown members are skipped",
		message: "Scalars",
		in:      `{"fInt32":null,"bogus":1,"fBool":true}`,
		want:    []byte{0x40, 0x01},
	}, {
		desc:    "shape mismatches are skipped",
		message: "Event",
		in:      `{"numbers":5,"settings":["a"]}`,
		want:    []byte{},
	}, {
		desc:    "non-object message is skipped",
		message: "Nested",
		in:      `{"child":"x","id":1}`,
		want:    []byte{0x08, 0x01},
	}, {
		desc:    "explicit defaults are written",
		message: "Scalars",
		in:      `{"fInt32":0,"fString":""}`,
		want:    []byte{0x28, 0x00, 0x4a, 0x00},
	}, {
		desc:    "fields in declaration order",
		message: "Scalars",
		in:      `{"fString":"s","fInt32":1}`,
		want:    []byte{0x28, 0x01, 0x4a, 0x01, 's'},
	}, {
		desc:    "numeric and quoted inputs",
		message: "Scalars",
		in:      `{"fInt64":"-1","fUint32":"7","fEnum":2,"fBool":"true"}`,
		want: []byte{
			0x18, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01,
			0x40, 0x01, 0x68, 0x07, 0x70, 0x02,
		},
	}, {
		desc:    "enum by number string",
		message: "Scalars",
		in:      `{"fEnum":"42"}`,
		want:    []byte{0x70, 0x2a},
	}, {
		desc:    "url-safe base64",
		message: "Scalars",
		in:      `{"fBytes":"-_8"}`,
		want:    []byte{0x62, 0x02, 0xfb, 0xff},
	}, {
		desc:    "map value null omitted",
		message: "Maps",
		in:      `{"byId":{"3":null}}`,
		want:    []byte{0x12, 0x02, 0x08, 0x03},
	}, {
		desc:    "packed enums",
		message: "Repeats",
		opts:    protodyn.MarshalOptions{Packed: true},
		in:      `{"colors":["RED","BLUE"],"names":["a"]}`,
		want:    []byte{0x12, 0x01, 'a', 0x2a, 0x02, 0x01, 0x03},
	}}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			got, err := tt.opts.Marshal(parse(t, tt.in), md, idx)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalErrors(t *testing.T) {
	_, idx := testprotos.Load(t)
	tests := []struct {
		desc    string
		message string
		in      string
		wantErr error
	}{
		{"unknown enum symbol", "Scalars", `{"fEnum":"PURPLE"}`, errors.InvalidEnumLiteral},
		{"enum symbol is case-sensitive", "Scalars", `{"fEnum":"red"}`, errors.InvalidEnumLiteral},
		{"enum of wrong shape", "Scalars", `{"fEnum":true}`, errors.ValueShape},
		{"invalid base64", "Scalars", `{"fBytes":"!!"}`, errors.InvalidBytes},
		{"non-numeric string", "Scalars", `{"fInt32":"x"}`, errors.ValueShape},
		{"int32 overflow", "Scalars", `{"fInt32":2147483648}`, errors.ValueShape},
		{"uint32 negative", "Scalars", `{"fUint32":-1}`, errors.ValueShape},
		{"fractional integer", "Scalars", `{"fInt64":1.5}`, errors.ValueShape},
		{"top-level array", "Scalars", `[]`, errors.ValueShape},
		{"bad map key", "Maps", `{"byId":{"abc":{}}}`, errors.ValueShape},
		{"bad nested field", "Nested", `{"child":{"child":{"id":"z"}}}`, errors.ValueShape},
		{"bad timestamp", "WellKnown", `{"created":"yesterday"}`, errors.ValueShape},
		{"any without type", "WellKnown", `{"payload":{"id":1}}`, errors.ValueShape},
		{"any with unknown type", "WellKnown", `{"payload":{"@type":"x/pkg.Absent"}}`, errors.TypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := testprotos.Message(t, idx, tt.message)
			_, err := protodyn.Marshal(parse(t, tt.in), md, idx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Marshal error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroups(t *testing.T) {
	const source = `
syntax = "proto2";
package grouptest;
message G {
  optional group Item = 1 {
    optional int32 a = 2;
  }
  repeated group Entry = 3 {
    optional string s = 4;
  }
  optional int32 after = 5;
}
`
	set, errs := compiler.CompileSource(context.Background(), source)
	if len(errs) > 0 {
		t.Fatalf("CompileSource: %s", strings.Join(errs, "\n"))
	}
	d, err := schema.Parse(set)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := d.Index()
	if err != nil {
		t.Fatal(err)
	}
	md, err := idx.GetMessage("grouptest.G")
	if err != nil {
		t.Fatal(err)
	}

	in := parse(t, `{"item":{"a":1},"entry":[{"s":"x"},{}],"after":2}`)
	b, err := protodyn.Marshal(in, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x0b, 0x10, 0x01, 0x0c,
		0x1b, 0x22, 0x01, 'x', 0x1c,
		0x1b, 0x1c,
		0x28, 0x02,
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
	got, err := protodyn.Unmarshal(b, md, idx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(in) {
		t.Errorf("Unmarshal = %s", text(got))
	}
	if want := canonicalJSON(t, set, "grouptest.G", b); !got.Equal(want) {
		t.Errorf("output differs from protojson:\ngot  %s\nwant %s", text(got), text(want))
	}
}

func TestFieldNamingString(t *testing.T) {
	for n, want := range map[protodyn.FieldNaming]string{
		protodyn.JSONName:  "json",
		protodyn.ProtoName: "proto",
		7:                  "<unknown:7>",
	} {
		if got := n.String(); got != want {
			t.Errorf("FieldNaming(%d).String() = %q, want %q", n, got, want)
		}
	}
}
