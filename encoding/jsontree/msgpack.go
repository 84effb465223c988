// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"bytes"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalMsgpack renders v as MessagePack. Object members are written in
// sorted name order so equal trees produce identical bytes. Decimals and raw
// numbers are written as strings; bytes are written as the bin type.
func MarshalMsgpack(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(&buf)
	enc.UseCompactInts(true)
	enc.UseCompactFloats(true)
	if err := encodeMsgpack(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, v Value) error {
	switch v.kind {
	case Null:
		return enc.EncodeNil()
	case Bool:
		return enc.EncodeBool(v.b)
	case String:
		return enc.EncodeString(v.s)
	case Bytes:
		return enc.EncodeBytes(v.raw)
	case Int32, Int64:
		return enc.EncodeInt(v.i)
	case Uint32, Uint64:
		return enc.EncodeUint(v.u)
	case Double:
		if v.Bits() == 32 {
			return enc.EncodeFloat32(float32(v.f))
		}
		return enc.EncodeFloat64(v.f)
	case Decimal, RawNumber:
		return enc.EncodeString(v.numberText())
	case Array:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for _, e := range v.arr {
			if err := encodeMsgpack(enc, e); err != nil {
				return err
			}
		}
		return nil
	case Object:
		list := append([]Member(nil), v.obj.List()...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		if err := enc.EncodeMapLen(len(list)); err != nil {
			return err
		}
		for _, m := range list {
			if err := enc.EncodeString(m.Name); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, m.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
