// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "github.com/protobridge/protobridge/internal/errors"

// AppendLengthPrefix appends msg to dst preceded by its length as a varint.
func AppendLengthPrefix(dst, msg []byte) []byte {
	dst = AppendVarint(dst, uint64(len(msg)))
	return append(dst, msg...)
}

// ConsumeLengthPrefix reads a varint length prefix from b and returns the
// message payload that follows it. The declared length must equal the number
// of remaining bytes exactly.
func ConsumeLengthPrefix(b []byte) ([]byte, error) {
	p := NewBuffer(b)
	n, err := p.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(errors.Framing, "invalid length prefix: %v", err)
	}
	rest := p.Unread()
	if n != uint64(len(rest)) {
		return nil, errors.Wrap(errors.Framing, "length prefix declares %d bytes, %d remain", n, len(rest))
	}
	return rest, nil
}
