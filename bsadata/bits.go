// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsadata

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// BitsReader streams bits MSB-first out of a byte queue. It is the
// decode-side half of the bit I/O every dictionary codec in
// bsadata/codec is built on.
type BitsReader struct {
	data      []byte
	pos       int  // index of the next byte in data not yet loaded into cur
	cur       byte // byte currently being consumed
	curLoaded bool
	cursor    int // bits already consumed out of cur, MSB-first, 0..8
}

// NewBitsReader wraps data as a bit queue positioned at its first bit.
func NewBitsReader(data []byte) *BitsReader {
	return &BitsReader{data: data}
}

func (r *BitsReader) ensureCur() bool {
	if r.curLoaded {
		return true
	}
	if r.pos >= len(r.data) {
		return false
	}
	r.cur = r.data[r.pos]
	r.pos++
	r.curLoaded = true
	r.cursor = 0
	return true
}

func (r *BitsReader) peekNextByte() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos], true
}

// GetBits returns the next 8 pending bits, MSB-first, without consuming
// them. When fewer than 8 bits remain it pads with zero bits past the end
// of the underlying data; it fails with errs.Truncated only when no bits
// remain at all.
func (r *BitsReader) GetBits() (byte, error) {
	if !r.ensureCur() {
		return 0, errors.Annotate(errs.Truncated).Reason("GetBits: no bits remaining").Err()
	}
	remaining := 8 - r.cursor
	val := r.cur << uint(r.cursor)
	if remaining < 8 {
		nb, _ := r.peekNextByte()
		val |= nb >> uint(remaining)
	}
	return val, nil
}

// RemoveBits advances the read cursor by n bits (0 <= n <= 8), drawing from
// the next byte in the queue whenever the cursor crosses a byte boundary.
// It fails with errs.Truncated if the queue runs out of bytes while bits
// are still being requested.
func (r *BitsReader) RemoveBits(n int) error {
	for n > 0 {
		if !r.ensureCur() {
			return errors.Annotate(errs.Truncated).Reason("RemoveBits: underflow with %(n)d bits still requested").D("n", n).Err()
		}
		avail := 8 - r.cursor
		take := n
		if take > avail {
			take = avail
		}
		r.cursor += take
		n -= take
		if r.cursor == 8 {
			r.curLoaded = false
			r.cursor = 0
		}
	}
	return nil
}

// NextByte is a byte-aligned peek+pop: it requires the cursor to currently
// sit on a byte boundary and returns the next whole byte, consuming it.
func (r *BitsReader) NextByte() (byte, error) {
	if r.cursor != 0 {
		return 0, errors.Annotate(errs.Corrupt).Reason("NextByte: reader is not byte-aligned").Err()
	}
	if !r.ensureCur() {
		return 0, errors.Annotate(errs.Truncated).Reason("NextByte: no byte remaining").Err()
	}
	b := r.cur
	r.curLoaded = false
	return b, nil
}

// NextUnsignedByte is NextByte's unsigned-byte-returning twin. Go's byte is
// already unsigned, so the two are equivalent; both are kept so call sites
// can name the width/signedness they mean, matching the source format's
// own next_byte/next_unsigned_byte split.
func (r *BitsReader) NextUnsignedByte() (byte, error) { return r.NextByte() }

// ReadBitsValue reads the next n bits (0 <= n <= 32), MSB-first, as an
// unsigned value, regardless of whether the reader is currently
// byte-aligned. This is the Deflate-like codec's "read_byte_bits"/extra-bit
// primitive: unlike NextByte, it works mid-byte.
func (r *BitsReader) ReadBitsValue(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		b, err := r.GetBits()
		if err != nil {
			return 0, err
		}
		bit := (b >> 7) & 1
		if err := r.RemoveBits(1); err != nil {
			return 0, err
		}
		v = (v << 1) | uint32(bit)
	}
	return v, nil
}

// Exhausted reports whether the reader has no more bits pending at all.
func (r *BitsReader) Exhausted() bool {
	return !r.curLoaded && r.pos >= len(r.data)
}

// BitsWriter is BitsReader's write-side twin: it packs values MSB-first
// into bytes and emits each byte to an internal buffer as soon as it's
// full.
type BitsWriter struct {
	out    []byte
	cur    byte
	cursor int // bits already placed into cur, MSB-first, 0..8
}

// NewBitsWriter returns an empty BitsWriter.
func NewBitsWriter() *BitsWriter {
	return &BitsWriter{}
}

// AddBits packs the low n bits of value into the stream, MSB-first,
// emitting completed bytes to the output as it goes.
func (w *BitsWriter) AddBits(value uint32, n int) {
	if n <= 0 {
		return
	}
	if n < 32 {
		value &= (uint32(1) << uint(n)) - 1
	}
	for n > 0 {
		avail := 8 - w.cursor
		take := avail
		if take > n {
			take = n
		}
		shift := n - take
		chunk := byte((value >> uint(shift)) & ((1 << uint(take)) - 1))
		w.cur |= chunk << uint(avail-take)
		w.cursor += take
		n -= take
		if w.cursor == 8 {
			w.out = append(w.out, w.cur)
			w.cur, w.cursor = 0, 0
		}
	}
}

// Flush emits any partial byte under construction, right-padded with zeros
// in the unused low bits, and returns the full output accumulated so far.
func (w *BitsWriter) Flush() []byte {
	if w.cursor > 0 {
		w.out = append(w.out, w.cur)
		w.cur, w.cursor = 0, 0
	}
	return w.out
}

// Bytes returns the bytes emitted so far without flushing a pending
// partial byte.
func (w *BitsWriter) Bytes() []byte {
	return w.out
}
