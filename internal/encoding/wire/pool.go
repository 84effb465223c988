// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "sync"

const (
	poolInitCap = 256
	poolMaxCap  = 64 << 10 // larger buffers are left to the garbage collector
)

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{buf: make([]byte, 0, poolInitCap)}
	},
}

// GetBuffer returns an empty Buffer from the pool.
// The caller owns it until it is handed back with PutBuffer.
func GetBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.Reset()
	return b
}

// PutBuffer returns b to the pool. The contents of b must not be
// referenced after this call.
func PutBuffer(b *Buffer) {
	if b == nil || cap(b.buf) > poolMaxCap {
		return // reject oversized
	}
	b.Reset()
	bufferPool.Put(b)
}
