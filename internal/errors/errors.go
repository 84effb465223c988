// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors implements functions to manipulate errors.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the codec matches at most one of these
// under errors.Is.
var (
	Schema               = kindError("malformed schema")
	TypeNotFound         = kindError("descriptor not found")
	UnsupportedFieldType = kindError("unsupported field type")
	ValueShape           = kindError("value shape mismatch")
	InvalidEnumLiteral   = kindError("invalid enum literal")
	InvalidBytes         = kindError("invalid bytes encoding")
	Framing              = kindError("framing error")
)

type kindError string

func (e kindError) Error() string { return "protobridge: " + string(e) }

// New formats a string according to the format specifier and arguments and
// returns an error that has a "protobridge" prefix.
func New(f string, x ...interface{}) error {
	return newError(nil, f, x...)
}

// Wrap is like New, but the returned error also matches kind under errors.Is.
func Wrap(kind error, f string, x ...interface{}) error {
	return newError(kind, f, x...)
}

func newError(kind error, f string, x ...interface{}) error {
	var cause error
	for i := 0; i < len(x); i++ {
		switch e := x[i].(type) {
		case *prefixError:
			x[i] = e.s // avoid "protobridge: " prefix when chaining
			if kind == nil {
				kind = e.kind
			}
		case error:
			if cause == nil {
				cause = e
			}
		}
	}
	return &prefixError{s: fmt.Sprintf(f, x...), kind: kind, cause: cause}
}

type prefixError struct {
	s     string
	kind  error
	cause error
}

func (e *prefixError) Error() string { return "protobridge: " + e.s }

func (e *prefixError) Is(target error) bool {
	return e.kind != nil && e.kind == target
}

func (e *prefixError) Unwrap() error { return e.cause }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }
