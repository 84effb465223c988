// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema provides a flat, read-only view of a compiled protobuf
// schema: every message and enum of a FileDescriptorSet indexed under its
// fully-qualified name.
//
// A Descriptor and its Index are immutable once built and safe for
// concurrent use.
package schema

import (
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protobridge/protobridge/internal/errors"
)

// Descriptor is one compiled schema: the set of files it was built from and
// the index derived from them.
type Descriptor struct {
	files []*descriptorpb.FileDescriptorProto

	once  sync.Once
	index *Index
	err   error
}

// Parse parses b as a serialized google.protobuf.FileDescriptorSet, the form
// produced by protoc --descriptor_set_out.
func Parse(b []byte) (*Descriptor, error) {
	set := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(b, set); err != nil {
		return nil, errors.Wrap(errors.Schema, "cannot parse file descriptor set: %v", err)
	}
	return New(set)
}

// New returns a Descriptor for an already decoded set. The caller must not
// modify set afterwards.
func New(set *descriptorpb.FileDescriptorSet) (*Descriptor, error) {
	if len(set.GetFile()) == 0 {
		return nil, errors.Wrap(errors.Schema, "file descriptor set contains no files")
	}
	return &Descriptor{files: set.GetFile()}, nil
}

// Files returns the file descriptors making up the schema.
func (d *Descriptor) Files() []*descriptorpb.FileDescriptorProto {
	return d.files
}

// Index returns the type index of d. It is built on first use and shared by
// every later call, including concurrent ones.
func (d *Descriptor) Index() (*Index, error) {
	d.once.Do(func() {
		d.index, d.err = buildIndex(d.files)
	})
	return d.index, d.err
}
