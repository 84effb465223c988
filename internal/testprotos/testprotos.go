// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testprotos provides the schema shared by the codec tests.
package testprotos

import (
	"context"
	_ "embed"
	"strings"
	"testing"

	"github.com/protobridge/protobridge/compiler"
	"github.com/protobridge/protobridge/reflect/schema"
)

// Source is the text of test.proto.
//
//go:embed test.proto
var Source string

// Package is the proto package declared by Source.
const Package = "protobridge.test"

// Compile compiles Source into a serialized FileDescriptorSet.
func Compile(tb testing.TB) []byte {
	tb.Helper()
	b, errs := compiler.CompileSource(context.Background(), Source)
	if len(errs) > 0 {
		tb.Fatalf("cannot compile test schema:\n%s", strings.Join(errs, "\n"))
	}
	return b
}

// Load compiles Source and returns its index.
func Load(tb testing.TB) (*schema.Descriptor, *schema.Index) {
	tb.Helper()
	d, err := schema.Parse(Compile(tb))
	if err != nil {
		tb.Fatalf("schema.Parse() error: %v", err)
	}
	x, err := d.Index()
	if err != nil {
		tb.Fatalf("Index() error: %v", err)
	}
	return d, x
}

// Message returns the message Package.name from x.
func Message(tb testing.TB, x *schema.Index, name string) *schema.MessageDef {
	tb.Helper()
	md, err := x.GetMessage(Package + "." + name)
	if err != nil {
		tb.Fatal(err)
	}
	return md
}
