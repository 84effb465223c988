// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protobridge

import (
	"go.uber.org/zap"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/encoding/protodyn"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/reflect/schema"
	"github.com/protobridge/protobridge/reflect/schemacache"
)

// Options configures a Converter.
type Options struct {
	// MaxCacheEntries bounds the number of parsed schemas kept by the
	// converter. Zero selects schemacache.DefaultMaxEntries.
	MaxCacheEntries int

	// Naming selects the field names used in JSON output, and the names
	// looked up first on input.
	Naming protodyn.FieldNaming

	// AcceptBothNames lets JSON input use either the proto name or the JSON
	// name of a field.
	AcceptBothNames bool

	// CanonicalInt64 renders 64-bit integers in JSON output as strings.
	CanonicalInt64 bool

	// PackRepeated writes repeated scalar fields in the packed encoding.
	PackRepeated bool

	// Logger receives debug events. Nil selects the package Logger.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by the process-wide Converter when
// Init is not called.
func DefaultOptions() Options {
	return Options{
		MaxCacheEntries: schemacache.DefaultMaxEntries,
		Naming:          protodyn.JSONName,
		AcceptBothNames: true,
	}
}

// Converter converts messages between JSON and binary. It is safe for
// concurrent use.
type Converter struct {
	cache     *schemacache.Cache
	marshal   protodyn.MarshalOptions
	unmarshal protodyn.UnmarshalOptions
	log       *zap.Logger
}

// New returns a Converter configured by opts.
func New(opts Options) (*Converter, error) {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	cache, err := schemacache.New(schemacache.Options{
		MaxEntries: opts.MaxCacheEntries,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("converter created",
		zap.Int("max_cache_entries", opts.MaxCacheEntries),
		zap.Stringer("naming", opts.Naming),
		zap.Bool("accept_both_names", opts.AcceptBothNames))
	return &Converter{
		cache: cache,
		marshal: protodyn.MarshalOptions{
			Naming:      opts.Naming,
			StrictNames: !opts.AcceptBothNames,
			Packed:      opts.PackRepeated,
		},
		unmarshal: protodyn.UnmarshalOptions{
			Naming:         opts.Naming,
			CanonicalInt64: opts.CanonicalInt64,
		},
		log: log,
	}, nil
}

// resolve returns the message typeName of the schema schemaBytes.
func (c *Converter) resolve(schemaBytes []byte, typeName string) (*schema.MessageDef, *schema.Index, error) {
	d, err := c.cache.GetOrAdd(schemaBytes)
	if err != nil {
		return nil, nil, err
	}
	idx, err := d.Index()
	if err != nil {
		return nil, nil, err
	}
	md, err := idx.GetMessage(typeName)
	if err != nil {
		return nil, nil, err
	}
	return md, idx, nil
}

// TreeToBinary encodes the object v as the message typeName of the schema
// schemaBytes.
func (c *Converter) TreeToBinary(schemaBytes []byte, typeName string, v jsontree.Value) ([]byte, error) {
	md, idx, err := c.resolve(schemaBytes, typeName)
	if err != nil {
		return nil, err
	}
	return c.marshal.Marshal(v, md, idx)
}

// BinaryToTree decodes b as the message typeName of the schema schemaBytes.
func (c *Converter) BinaryToTree(schemaBytes []byte, typeName string, b []byte) (jsontree.Value, error) {
	md, idx, err := c.resolve(schemaBytes, typeName)
	if err != nil {
		return jsontree.Value{}, err
	}
	return c.unmarshal.Unmarshal(b, md, idx)
}

// JSONToBinary encodes the JSON object jsonText as the message typeName of
// the schema schemaBytes.
func (c *Converter) JSONToBinary(schemaBytes []byte, typeName string, jsonText []byte) ([]byte, error) {
	v, err := jsontree.Parse(jsonText)
	if err != nil {
		return nil, errors.New("invalid JSON input: %v", err)
	}
	return c.TreeToBinary(schemaBytes, typeName, v)
}

// BinaryToJSON decodes b as the message typeName of the schema schemaBytes
// and returns compact JSON.
func (c *Converter) BinaryToJSON(schemaBytes []byte, typeName string, b []byte) ([]byte, error) {
	v, err := c.BinaryToTree(schemaBytes, typeName, b)
	if err != nil {
		return nil, err
	}
	return jsontree.Marshal(v)
}

// JSONToDelimitedBinary is like JSONToBinary, but prefixes the message with
// its varint-encoded length.
func (c *Converter) JSONToDelimitedBinary(schemaBytes []byte, typeName string, jsonText []byte) ([]byte, error) {
	b, err := c.JSONToBinary(schemaBytes, typeName, jsonText)
	if err != nil {
		return nil, err
	}
	return wire.AppendLengthPrefix(nil, b), nil
}

// DelimitedBinaryToJSON is like BinaryToJSON for a length-prefixed message.
// The prefix must match the length of the rest of b exactly.
func (c *Converter) DelimitedBinaryToJSON(schemaBytes []byte, typeName string, b []byte) ([]byte, error) {
	msg, err := wire.ConsumeLengthPrefix(b)
	if err != nil {
		return nil, err
	}
	return c.BinaryToJSON(schemaBytes, typeName, msg)
}

// CacheLen returns the number of schemas held by the converter's cache.
func (c *Converter) CacheLen() int {
	return c.cache.Len()
}

// Close releases the converter's cache. The converter must not be used
// afterwards.
func (c *Converter) Close() {
	c.cache.Close()
}
