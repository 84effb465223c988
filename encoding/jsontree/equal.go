// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"bytes"
	"encoding/base64"
	"math"
)

// Equal reports whether v and w describe the same JSON value.
// Numbers compare by numeric value regardless of representation,
// object members compare regardless of order, a Bytes value equals the
// String holding its base64 form, and a non-finite Double equals the String
// it is rendered as.
func (v Value) Equal(w Value) bool {
	switch {
	case v.kind.IsNumber() && w.kind.IsNumber():
		return numbersEqual(v, w)
	case v.kind == Bytes && w.kind == Bytes:
		return bytes.Equal(v.raw, w.raw)
	case v.kind == Bytes && w.kind == String:
		return base64.StdEncoding.EncodeToString(v.raw) == w.s
	case v.kind == String && (w.kind == Bytes || w.kind == Double):
		return w.Equal(v)
	case v.kind == Double && w.kind == String:
		s, ok := nonFiniteName(v.f)
		return ok && s == w.s
	case v.kind != w.kind:
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == w.b
	case String:
		return v.s == w.s
	case Array:
		if len(v.arr) != len(w.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(w.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if v.obj.Len() != w.obj.Len() {
			return false
		}
		for _, m := range v.obj.List() {
			x, ok := w.obj.exact(m.Name)
			if !ok || !m.Value.Equal(x) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(v, w Value) bool {
	dv, okv := v.toDecimal()
	dw, okw := w.toDecimal()
	switch {
	case okv && okw:
		return dv.Equal(dw)
	case v.kind == Double && w.kind == Double:
		return v.f == w.f || (math.IsNaN(v.f) && math.IsNaN(w.f))
	case v.kind == RawNumber && w.kind == RawNumber:
		return v.s == w.s
	}
	return false
}

func nonFiniteName(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, +1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	}
	return "", false
}
