// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"math"
	"strconv"
	"strings"
)

// appendFloat appends n formatted for the given bit size. Magnitudes below
// 1e-6 or from 1e21 up use exponent notation, as encoding/json does.
func appendFloat(out []byte, n float64, bitSize int) []byte {
	switch {
	case math.IsNaN(n):
		return append(out, `"NaN"`...)
	case math.IsInf(n, 1):
		return append(out, `"Infinity"`...)
	case math.IsInf(n, -1):
		return append(out, `"-Infinity"`...)
	}

	abs := math.Abs(n)
	if bitSize == 32 {
		abs = float64(float32(abs))
	}
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.AppendFloat(out, n, 'f', -1, bitSize)
	}

	start := len(out)
	out = strconv.AppendFloat(out, n, 'e', -1, bitSize)
	// Trim the exponent's leading zero: 1e-07 becomes 1e-7.
	if exp := out[start:]; len(exp) >= 4 {
		if i := len(exp) - 4; exp[i] == 'e' && exp[i+1] == '-' && exp[i+2] == '0' {
			exp[i+2] = exp[i+3]
			out = out[:len(out)-1]
		}
	}
	return out
}

// scanNumber returns the length of the JSON number at the start of b, or 0 if
// b does not start with a number followed by a delimiter or the end of input.
func scanNumber(b []byte) int {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && '1' <= b[i] && b[i] <= '9':
		i = skipDigits(b, i+1)
	default:
		return 0
	}
	if i < len(b) && b[i] == '.' {
		j := skipDigits(b, i+1)
		if j == i+1 {
			return 0
		}
		i = j
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		j := skipDigits(b, i)
		if j == i {
			return 0
		}
		i = j
	}
	if i < len(b) && isNotDelim(b[i]) {
		return 0
	}
	return i
}

func skipDigits(b []byte, i int) int {
	for i < len(b) && '0' <= b[i] && b[i] <= '9' {
		i++
	}
	return i
}

// maxIntDigits bounds the digits of any 64-bit integer.
const maxIntDigits = 20

// integerText returns the decimal integer written by the number literal s,
// with its fraction and exponent resolved. It reports false if s has a
// non-zero fractional part or too many digits for a 64-bit integer.
func integerText(s string) (string, bool) {
	if scanNumber([]byte(s)) != len(s) {
		return "", false
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return "", false
		}
		mant, exp = s[:i], e
	}

	digits, point := mant, len(mant)
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		digits, point = mant[:i]+mant[i+1:], i
	}
	lead := len(digits) - len(strings.TrimLeft(digits, "0"))
	digits = digits[lead:]
	if strings.Trim(digits, "0") == "" {
		return "0", true
	}
	point += exp - lead

	switch {
	case point <= 0:
		return "", false
	case point > maxIntDigits:
		return "", false
	case point < len(digits):
		if strings.Trim(digits[point:], "0") != "" {
			return "", false
		}
		digits = digits[:point]
	default:
		digits += strings.Repeat("0", point-len(digits))
	}
	if neg {
		return "-" + digits, true
	}
	return digits, true
}
