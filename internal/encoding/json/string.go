// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// appendString appends s as a quoted JSON string. Only quotes, backslashes
// and control characters are escaped. Invalid UTF-8 is written as \ufffd.
func appendString(out []byte, s string) []byte {
	out = append(out, '"')
	for i := 0; i < len(s); {
		j := i + plainPrefix(s[i:])
		out = append(out, s[i:j]...)
		if j == len(s) {
			break
		}
		r, n := utf8.DecodeRuneInString(s[j:])
		switch {
		case r == utf8.RuneError && n == 1:
			out = append(out, `\ufffd`...)
		case r == '"' || r == '\\':
			out = append(out, '\\', byte(r))
		case r == '\b':
			out = append(out, `\b`...)
		case r == '\f':
			out = append(out, `\f`...)
		case r == '\n':
			out = append(out, `\n`...)
		case r == '\r':
			out = append(out, `\r`...)
		case r == '\t':
			out = append(out, `\t`...)
		default:
			out = append(out, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
		}
		i = j + n
	}
	return append(out, '"')
}

// plainPrefix returns the length of the leading part of s that can be copied
// without escaping.
func plainPrefix(s string) int {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < ' ' || c == '"' || c == '\\' || c >= utf8.RuneSelf {
			if c >= utf8.RuneSelf {
				if r, n := utf8.DecodeRuneInString(s[i:]); r != utf8.RuneError || n != 1 {
					i += n - 1
					continue
				}
			}
			return i
		}
	}
	return len(s)
}

// parseString decodes the quoted string at the start of in, returning its
// content and the number of bytes read. Invalid UTF-8 is kept as is.
func (d *Decoder) parseString(in []byte) (string, int, error) {
	if len(in) == 0 {
		return "", 0, d.unexpectedEOF()
	}
	if in[0] != '"' {
		return "", 0, d.newSyntaxError("invalid character %q at start of string", in[0])
	}
	var out []byte
	i := 1
	for i < len(in) {
		c := in[i]
		switch {
		case c == '"':
			return string(out), i + 1, nil
		case c < ' ':
			return "", 0, d.newSyntaxError("invalid character %q in string", c)
		case c != '\\':
			out = append(out, c)
			i++
			continue
		}

		if i+1 >= len(in) {
			return "", 0, d.unexpectedEOF()
		}
		switch e := in[i+1]; e {
		case '"', '\\', '/':
			out = append(out, e)
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r, n, err := d.parseEscapedRune(in[i:])
			if err != nil {
				return "", 0, err
			}
			out = utf8.AppendRune(out, r)
			i += n
			continue
		default:
			return "", 0, d.newSyntaxError("invalid escape code %q in string", in[i:i+2])
		}
		i += 2
	}
	return "", 0, d.unexpectedEOF()
}

// parseEscapedRune decodes the \uXXXX escape at the start of in, including
// the second half of a surrogate pair.
func (d *Decoder) parseEscapedRune(in []byte) (rune, int, error) {
	r, err := d.hex4(in)
	if err != nil {
		return 0, 0, err
	}
	if !utf16.IsSurrogate(r) {
		return r, 6, nil
	}
	low, err := d.hex4(in[6:])
	if err != nil {
		return 0, 0, err
	}
	r = utf16.DecodeRune(r, low)
	if r == utf8.RuneError {
		return 0, 0, d.newSyntaxError("invalid escape code %q in string", in[6:12])
	}
	return r, 12, nil
}

func (d *Decoder) hex4(in []byte) (rune, error) {
	if len(in) < 6 {
		return 0, d.unexpectedEOF()
	}
	if in[0] != '\\' || in[1] != 'u' {
		return 0, d.newSyntaxError("invalid escape code %q in string", in[:6])
	}
	v, err := strconv.ParseUint(string(in[2:6]), 16, 16)
	if err != nil {
		return 0, d.newSyntaxError("invalid escape code %q in string", in[:6])
	}
	return rune(v), nil
}
