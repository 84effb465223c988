// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protobridge

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/protobridge/protobridge/encoding/jsontree"
)

var defaultConverter atomic.Pointer[Converter]

// Init configures the process-wide Converter. Only the first successful call
// has an effect; it reports true. Later calls, and calls after the
// process-wide Converter was created on first use, report false.
func Init(opts Options) (bool, error) {
	if defaultConverter.Load() != nil {
		return false, nil
	}
	c, err := New(opts)
	if err != nil {
		return false, err
	}
	if !defaultConverter.CompareAndSwap(nil, c) {
		c.Close()
		return false, nil
	}
	c.log.Info("protobridge initialized", zap.Int("max_cache_entries", opts.MaxCacheEntries))
	return true, nil
}

// Default returns the process-wide Converter, creating it with
// DefaultOptions if Init has not been called.
func Default() *Converter {
	if c := defaultConverter.Load(); c != nil {
		return c
	}
	if _, err := Init(DefaultOptions()); err != nil {
		panic(err) // DefaultOptions are valid
	}
	return defaultConverter.Load()
}

// JSONToBinary calls Default().JSONToBinary.
func JSONToBinary(schemaBytes []byte, typeName string, jsonText []byte) ([]byte, error) {
	return Default().JSONToBinary(schemaBytes, typeName, jsonText)
}

// BinaryToJSON calls Default().BinaryToJSON.
func BinaryToJSON(schemaBytes []byte, typeName string, b []byte) ([]byte, error) {
	return Default().BinaryToJSON(schemaBytes, typeName, b)
}

// JSONToDelimitedBinary calls Default().JSONToDelimitedBinary.
func JSONToDelimitedBinary(schemaBytes []byte, typeName string, jsonText []byte) ([]byte, error) {
	return Default().JSONToDelimitedBinary(schemaBytes, typeName, jsonText)
}

// DelimitedBinaryToJSON calls Default().DelimitedBinaryToJSON.
func DelimitedBinaryToJSON(schemaBytes []byte, typeName string, b []byte) ([]byte, error) {
	return Default().DelimitedBinaryToJSON(schemaBytes, typeName, b)
}

// TreeToBinary calls Default().TreeToBinary.
func TreeToBinary(schemaBytes []byte, typeName string, v jsontree.Value) ([]byte, error) {
	return Default().TreeToBinary(schemaBytes, typeName, v)
}

// BinaryToTree calls Default().BinaryToTree.
func BinaryToTree(schemaBytes []byte, typeName string, b []byte) (jsontree.Value, error) {
	return Default().BinaryToTree(schemaBytes, typeName, b)
}
