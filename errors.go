// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protobridge

import "github.com/protobridge/protobridge/internal/errors"

// Error kinds reported by conversions. Use errors.Is to test for them.
var (
	// ErrSchema reports schema bytes that cannot be parsed or indexed.
	ErrSchema = errors.Schema
	// ErrTypeNotFound reports a message or enum name absent from the schema.
	ErrTypeNotFound = errors.TypeNotFound
	// ErrUnsupportedFieldType reports a field type outside the protobuf
	// scalar, enum, message and group kinds.
	ErrUnsupportedFieldType = errors.UnsupportedFieldType
	// ErrValueShape reports a JSON value that cannot represent its field.
	ErrValueShape = errors.ValueShape
	// ErrInvalidEnumLiteral reports an enum string that is neither a
	// declared symbol nor an integer.
	ErrInvalidEnumLiteral = errors.InvalidEnumLiteral
	// ErrInvalidBytes reports a bytes field holding malformed base64.
	ErrInvalidBytes = errors.InvalidBytes
	// ErrFraming reports a length prefix that does not match the payload.
	ErrFraming = errors.Framing
)
