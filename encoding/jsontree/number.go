// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/protobridge/protobridge/internal/encoding/json"
)

const (
	// A Decimal holds at most 28 fractional digits and a coefficient of at
	// most 96 bits; numbers outside that fall through to Double.
	maxDecimalScale = 28
	maxDecimalBits  = 96
)

// ParseNumber classifies the JSON number literal s. It reports false if s is
// not a single valid JSON number.
func ParseNumber(s string) (Value, bool) {
	d := json.NewDecoder([]byte(s))
	tok, err := d.Read()
	if err != nil || tok.Type() != json.Number {
		return Value{}, false
	}
	if next, err := d.Read(); err != nil || next.Type() != json.EOF {
		return Value{}, false
	}
	return classifyNumber(tok), true
}

func classifyNumber(tok json.Value) Value {
	if n, ok := tok.Int(32); ok {
		return Int32Value(int32(n))
	}
	if n, ok := tok.Uint(32); ok {
		return Uint32Value(uint32(n))
	}
	if n, ok := tok.Int(64); ok {
		return Int64Value(n)
	}
	if n, ok := tok.Uint(64); ok {
		return Uint64Value(n)
	}
	raw := tok.Raw()
	if d, err := decimal.NewFromString(raw); err == nil && fitsDecimal(d) {
		return DecimalValue(d)
	}
	if f, ok := tok.Float(64); ok {
		return DoubleValue(f)
	}
	return RawNumberValue(raw)
}

func fitsDecimal(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxDecimalScale || exp > maxDecimalScale {
		return false
	}
	c := d.Coefficient()
	if exp > 0 {
		c.Mul(c, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	}
	return c.BitLen() <= maxDecimalBits
}

// Int64 returns v as an int64 if v is a number with an integral value that
// fits.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case Int32, Int64:
		return v.i, true
	case Uint32, Uint64:
		if v.u > math.MaxInt64 {
			return 0, false
		}
		return int64(v.u), true
	case Decimal:
		if !v.d.IsInteger() {
			return 0, false
		}
		b := v.d.BigInt()
		if !b.IsInt64() {
			return 0, false
		}
		return b.Int64(), true
	case Double:
		if v.f != math.Trunc(v.f) || v.f < -(1<<63) || v.f >= 1<<63 {
			return 0, false
		}
		return int64(v.f), true
	case RawNumber:
		if n, ok := ParseNumber(v.s); ok && n.kind != RawNumber {
			return n.Int64()
		}
	}
	return 0, false
}

// Uint64 returns v as a uint64 if v is a number with a non-negative integral
// value that fits.
func (v Value) Uint64() (uint64, bool) {
	switch v.kind {
	case Int32, Int64:
		if v.i < 0 {
			return 0, false
		}
		return uint64(v.i), true
	case Uint32, Uint64:
		return v.u, true
	case Decimal:
		if !v.d.IsInteger() || v.d.Sign() < 0 {
			return 0, false
		}
		b := v.d.BigInt()
		if !b.IsUint64() {
			return 0, false
		}
		return b.Uint64(), true
	case Double:
		if v.f != math.Trunc(v.f) || v.f < 0 || v.f >= 1<<64 {
			return 0, false
		}
		return uint64(v.f), true
	case RawNumber:
		if n, ok := ParseNumber(v.s); ok && n.kind != RawNumber {
			return n.Uint64()
		}
	}
	return 0, false
}

// Float64 returns v as a float64 if v is a number. Numbers beyond the range
// of float64 report false.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case Int32, Int64:
		return float64(v.i), true
	case Uint32, Uint64:
		return float64(v.u), true
	case Decimal:
		f, _ := v.d.Float64()
		return f, true
	case Double:
		return v.f, true
	case RawNumber:
		f, err := strconv.ParseFloat(v.s, 64)
		return f, err == nil
	}
	return 0, false
}

// numberText returns the JSON literal for a numeric v.
func (v Value) numberText() string {
	switch v.kind {
	case Int32, Int64:
		return strconv.FormatInt(v.i, 10)
	case Uint32, Uint64:
		return strconv.FormatUint(v.u, 10)
	case Decimal:
		return v.d.String()
	case Double:
		return strconv.FormatFloat(v.f, 'g', -1, v.Bits())
	case RawNumber:
		return v.s
	}
	return ""
}

// toDecimal returns the exact decimal value of a finite number.
func (v Value) toDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case Int32, Int64:
		return decimal.NewFromInt(v.i), true
	case Uint32, Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.u), 0), true
	case Decimal:
		return v.d, true
	case Double:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return decimal.Decimal{}, false
		}
		if v.Bits() == 32 {
			return decimal.NewFromFloat32(float32(v.f)), true
		}
		return decimal.NewFromFloat(v.f), true
	case RawNumber:
		d, err := decimal.NewFromString(v.s)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
