// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"

	"github.com/protobridge/protobridge/internal/errors"
)

// maxVarintLen is the longest valid encoding of a 64-bit varint.
const maxVarintLen = 10

var errOverflow = errors.New("varint overflows a 64-bit integer")

// Buffer appends wire-format values to a byte slice and reads them back from
// a read offset. It is not safe for concurrent use.
type Buffer struct {
	buf []byte
	off int
}

// NewBuffer returns a Buffer reading from (or appending to) b.
func NewBuffer(b []byte) *Buffer { return &Buffer{buf: b} }

// Reset empties the Buffer and keeps its capacity.
func (p *Buffer) Reset() { p.buf, p.off = p.buf[:0], 0 }

func (p *Buffer) Bytes() []byte { return p.buf }
func (p *Buffer) Len() int      { return len(p.buf) }

// EOF reports whether every byte has been read.
func (p *Buffer) EOF() bool { return p.off >= len(p.buf) }

// Unread returns the bytes after the read offset.
func (p *Buffer) Unread() []byte { return p.buf[p.off:] }

func (p *Buffer) EncodeVarint(x uint64)          { p.buf = AppendVarint(p.buf, x) }
func (p *Buffer) EncodeTag(num Number, typ Type) { p.EncodeVarint(EncodeTag(num, typ)) }
func (p *Buffer) EncodeZigzag32(v int32)         { p.EncodeVarint(uint64(EncodeZigZag32(v))) }
func (p *Buffer) EncodeZigzag64(v int64)         { p.EncodeVarint(EncodeZigZag64(v)) }
func (p *Buffer) EncodeFixed32(x uint32)         { p.buf = binary.LittleEndian.AppendUint32(p.buf, x) }
func (p *Buffer) EncodeFixed64(x uint64)         { p.buf = binary.LittleEndian.AppendUint64(p.buf, x) }

// EncodeRawBytes writes b preceded by its length.
func (p *Buffer) EncodeRawBytes(b []byte) {
	p.EncodeVarint(uint64(len(b)))
	p.buf = append(p.buf, b...)
}

// EncodeStringBytes writes s preceded by its length.
func (p *Buffer) EncodeStringBytes(s string) {
	p.EncodeVarint(uint64(len(s)))
	p.buf = append(p.buf, s...)
}

// DecodeVarint reads a varint of at most ten bytes.
func (p *Buffer) DecodeVarint() (uint64, error) {
	var x uint64
	for i := 0; i < maxVarintLen; i++ {
		if p.off+i >= len(p.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		c := p.buf[p.off+i]
		if i == maxVarintLen-1 && c > 1 {
			return 0, errOverflow
		}
		x |= uint64(c&0x7f) << (7 * i)
		if c < 0x80 {
			p.off += i + 1
			return x, nil
		}
	}
	return 0, errOverflow
}

// DecodeVarint32 reads a varint and keeps its low 32 bits. Negative 32-bit
// values are sign-extended to ten bytes on the wire, so the whole varint is
// consumed.
func (p *Buffer) DecodeVarint32() (uint32, error) {
	x, err := p.DecodeVarint()
	return uint32(x), err
}

// DecodeTag reads a field header and rejects field numbers outside the
// valid range.
func (p *Buffer) DecodeTag() (Number, Type, error) {
	x, err := p.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}
	num, typ := DecodeTag(x)
	if !num.IsValid() {
		return 0, 0, errors.New("invalid field number %d", x>>3)
	}
	return num, typ, nil
}

func (p *Buffer) DecodeFixed32() (uint32, error) {
	b, err := p.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (p *Buffer) DecodeFixed64() (uint64, error) {
	b, err := p.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// DecodeRawBytes reads a length-delimited payload. Unless alloc is set, the
// result aliases the Buffer.
func (p *Buffer) DecodeRawBytes(alloc bool) ([]byte, error) {
	n, err := p.DecodeVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(p.buf)-p.off) {
		return nil, io.ErrUnexpectedEOF
	}
	b, _ := p.next(int(n))
	if alloc {
		b = append([]byte(nil), b...)
	}
	return b, nil
}

func (p *Buffer) DecodeStringBytes() (string, error) {
	b, err := p.DecodeRawBytes(false)
	return string(b), err
}

func (p *Buffer) next(n int) ([]byte, error) {
	if n > len(p.buf)-p.off {
		return nil, io.ErrUnexpectedEOF
	}
	b := p.buf[p.off : p.off+n : p.off+n]
	p.off += n
	return b, nil
}

// SkipField reads past the payload of a field whose header was just read.
// A group is skipped through its matching end marker.
func (p *Buffer) SkipField(num Number, typ Type) error {
	var err error
	switch typ {
	case VarintType:
		_, err = p.DecodeVarint()
	case Fixed32Type:
		_, err = p.next(4)
	case Fixed64Type:
		_, err = p.next(8)
	case BytesType:
		_, err = p.DecodeRawBytes(false)
	case StartGroupType:
		for {
			n, t, err := p.DecodeTag()
			if err != nil {
				return err
			}
			if t == EndGroupType {
				if n != num {
					return errors.New("end group marker %d does not close group %d", n, num)
				}
				return nil
			}
			if err := p.SkipField(n, t); err != nil {
				return err
			}
		}
	case EndGroupType:
		return errors.New("unexpected end group marker for field %d", num)
	default:
		return errors.New("field %d has unknown wire type %d", num, typ)
	}
	return err
}
