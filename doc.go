// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protobridge converts between proto3 JSON and the protobuf binary
// wire format using schemas supplied at run time as serialized
// FileDescriptorSets. No generated Go types are involved.
//
// A Converter owns a bounded cache of parsed schemas keyed by the SHA-256
// digest of their bytes, so that repeated calls with the same schema parse
// and index it once:
//
//	c, err := protobridge.New(protobridge.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	bin, err := c.JSONToBinary(schemaBytes, "pkg.Event", []byte(`{"numbers":[1,2,3]}`))
//
// The package-level functions use a process-wide Converter configured once
// with Init. Without an explicit Init, DefaultOptions apply on first use.
//
// # Package layout
//
//	protobridge/          Converter, process-wide defaults, error kinds
//	├── encoding/jsontree Generic JSON value tree, parser and printers
//	├── encoding/protodyn Value tree to binary writer and binary reader
//	├── reflect/schema    Schema parsing and the type index
//	├── reflect/schemacache Digest-keyed bounded schema cache
//	├── compiler          .proto source to FileDescriptorSet
//	└── cmd/protobridge   Command-line front end
package protobridge
