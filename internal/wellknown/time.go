// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wellknown

import (
	"strconv"
	"strings"
	"time"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
	"github.com/protobridge/protobridge/internal/errors"
)

// Timestamp and Duration share the layout seconds = 1, nanos = 2.
const (
	secondsField wire.Number = 1
	nanosField   wire.Number = 2
)

const (
	secondsInNanos       = 999999999
	maxSecondsInDuration = 315576000000

	maxTimestampSeconds = 253402300799 // 9999-12-31T23:59:59Z
	minTimestampSeconds = -62135596800 // 0001-01-01T00:00:00Z
)

func appendSecondsNanos(secs int64, nanos int32) []byte {
	p := wire.GetBuffer()
	defer wire.PutBuffer(p)
	if secs != 0 {
		p.EncodeTag(secondsField, wire.VarintType)
		p.EncodeVarint(uint64(secs))
	}
	if nanos != 0 {
		p.EncodeTag(nanosField, wire.VarintType)
		p.EncodeVarint(uint64(int64(nanos)))
	}
	return bytesOf(p)
}

func readSecondsNanos(b []byte) (secs int64, nanos int32, err error) {
	err = forEachField(b, func(num wire.Number, typ wire.Type, p *wire.Buffer) (bool, error) {
		if typ != wire.VarintType {
			return false, nil
		}
		switch num {
		case secondsField:
			x, err := p.DecodeVarint()
			secs = int64(x)
			return true, err
		case nanosField:
			x, err := p.DecodeVarint()
			nanos = int32(x)
			return true, err
		}
		return false, nil
	})
	return secs, nanos, err
}

// The JSON representation for a Timestamp is a JSON string in the RFC 3339
// format, i.e. "{year}-{month}-{day}T{hour}:{min}:{sec}[.{frac_sec}]Z".
// Output is always Z-normalized; input accepts any offset.

func timestampFromJSON(v jsontree.Value) ([]byte, error) {
	const name = "google.protobuf.Timestamp"
	if v.Kind() != jsontree.String {
		return nil, shapeError(name, v)
	}
	t, err := time.Parse(time.RFC3339Nano, v.Str())
	if err != nil {
		return nil, errors.Wrap(errors.ValueShape, "%s: invalid value %q", name, v.Str())
	}
	// No need to validate nanos because time.Parse has covered that.
	secs := t.Unix()
	if secs < minTimestampSeconds || secs > maxTimestampSeconds {
		return nil, errors.Wrap(errors.ValueShape, "%s: out of range %q", name, v.Str())
	}
	return appendSecondsNanos(secs, int32(t.Nanosecond())), nil
}

func timestampToJSON(b []byte) (jsontree.Value, error) {
	const name = "google.protobuf.Timestamp"
	secs, nanos, err := readSecondsNanos(b)
	if err != nil {
		return jsontree.Value{}, wireError(name, err)
	}
	if secs < minTimestampSeconds || secs > maxTimestampSeconds {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: seconds out of range %v", name, secs)
	}
	if nanos < 0 || nanos > secondsInNanos {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: nanos out of range %v", name, nanos)
	}
	x := time.Unix(secs, 0).UTC().AppendFormat(nil, "2006-01-02T15:04:05")
	x = appendFraction(x, nanos)
	return jsontree.StringValue(string(append(x, 'Z'))), nil
}

// The JSON representation for a Duration is a JSON string that ends in the
// suffix "s" and is preceded by the number of seconds, with nanoseconds
// expressed as fractional seconds.

func durationFromJSON(v jsontree.Value) ([]byte, error) {
	const name = "google.protobuf.Duration"
	if v.Kind() != jsontree.String {
		return nil, shapeError(name, v)
	}
	secs, nanos, ok := parseDuration(v.Str())
	if !ok {
		return nil, errors.Wrap(errors.ValueShape, "%s: invalid value %q", name, v.Str())
	}
	// No need to validate nanos because parseDuration has covered that.
	if secs < -maxSecondsInDuration || secs > maxSecondsInDuration {
		return nil, errors.Wrap(errors.ValueShape, "%s: out of range %q", name, v.Str())
	}
	return appendSecondsNanos(secs, nanos), nil
}

func durationToJSON(b []byte) (jsontree.Value, error) {
	const name = "google.protobuf.Duration"
	secs, nanos, err := readSecondsNanos(b)
	if err != nil {
		return jsontree.Value{}, wireError(name, err)
	}
	if secs < -maxSecondsInDuration || secs > maxSecondsInDuration {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: seconds out of range %v", name, secs)
	}
	if nanos < -secondsInNanos || nanos > secondsInNanos {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: nanos out of range %v", name, nanos)
	}
	if (secs > 0 && nanos < 0) || (secs < 0 && nanos > 0) {
		return jsontree.Value{}, errors.Wrap(errors.ValueShape, "%s: signs of seconds and nanos do not match", name)
	}
	var x []byte
	if secs < 0 || nanos < 0 {
		x = append(x, '-')
	}
	x = strconv.AppendInt(x, abs(secs), 10)
	x = appendFraction(x, int32(abs(int64(nanos))))
	return jsontree.StringValue(string(append(x, 's'))), nil
}

// parseDuration parses a decimal number of seconds with an "s" suffix and an
// optional sign, such as 1s, 1.s, .1s, +1s or -.1s. The integer part has no
// leading zeros and the fraction has at most 9 digits.
func parseDuration(input string) (secs int64, nanos int32, ok bool) {
	s := strings.TrimSuffix(input, "s")
	if len(s) == len(input) {
		return 0, 0, false
	}
	neg := strings.HasPrefix(s, "-")
	if neg || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	whole, frac, dot := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, 0, false
	}
	if whole != "" {
		if !isDigits(whole) || (whole[0] == '0' && len(whole) > 1) {
			return 0, 0, false
		}
		var err error
		if secs, err = strconv.ParseInt(whole, 10, 64); err != nil {
			return 0, 0, false
		}
	}
	if dot {
		if nanos, ok = parseFraction(frac); !ok {
			return 0, 0, false
		}
	}
	if neg {
		secs, nanos = -secs, -nanos
	}
	return secs, nanos, true
}

// appendFraction appends nanos in [0, 1e9) as a fraction of a second with 0,
// 3, 6 or 9 digits.
func appendFraction(b []byte, nanos int32) []byte {
	if nanos == 0 {
		return b
	}
	width := 9
	for nanos%1000 == 0 {
		nanos /= 1000
		width -= 3
	}
	digits := strconv.Itoa(int(nanos))
	b = append(b, '.')
	for i := len(digits); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, digits...)
}

// parseFraction converts up to 9 digits following a decimal point into
// nanoseconds. An empty fraction is zero.
func parseFraction(s string) (int32, bool) {
	if len(s) > 9 || !isDigits(s) {
		return 0, false
	}
	var n int32
	for i := 0; i < 9; i++ {
		n *= 10
		if i < len(s) {
			n += int32(s[i] - '0')
		}
	}
	return n, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
