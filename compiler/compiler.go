// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler compiles .proto source text into a serialized
// google.protobuf.FileDescriptorSet.
package compiler

import (
	"context"
	"sort"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// SourceFileName is the file name CompileSource gives its input.
const SourceFileName = "schema.proto"

// CompileSource compiles a single .proto file. The standard
// google/protobuf imports are available to it.
func CompileSource(ctx context.Context, source string) ([]byte, []string) {
	return Compile(ctx, map[string]string{SourceFileName: source}, SourceFileName)
}

// Compile compiles the files named by roots. files maps import paths to
// source text; the standard google/protobuf imports need not be included.
//
// On success it returns a serialized FileDescriptorSet holding the roots and
// everything they import, each file after its dependencies. Otherwise it
// returns a non-empty list of human-readable errors. It never returns both.
func Compile(ctx context.Context, files map[string]string, roots ...string) ([]byte, []string) {
	if len(roots) == 0 {
		for name := range files {
			roots = append(roots, name)
		}
		sort.Strings(roots)
	}
	if len(roots) == 0 {
		return nil, []string{"no files to compile"}
	}

	var errs []string
	c := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(files),
		}),
		Reporter: reporter.NewReporter(
			func(err reporter.ErrorWithPos) error {
				errs = append(errs, err.Error())
				return nil // keep going to report every error
			},
			nil,
		),
	}
	res, err := c.Compile(ctx, roots...)
	if err != nil {
		if len(errs) == 0 {
			errs = append(errs, err.Error())
		}
		return nil, errs
	}

	set := new(descriptorpb.FileDescriptorSet)
	seen := make(map[string]bool)
	var add func(fd protoreflect.FileDescriptor)
	add = func(fd protoreflect.FileDescriptor) {
		if seen[fd.Path()] {
			return
		}
		seen[fd.Path()] = true
		imports := fd.Imports()
		for i := 0; i < imports.Len(); i++ {
			add(imports.Get(i).FileDescriptor)
		}
		set.File = append(set.File, protodesc.ToFileDescriptorProto(fd))
	}
	for _, fd := range res {
		add(fd)
	}

	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(set)
	if err != nil {
		return nil, []string{err.Error()}
	}
	return b, nil
}
