// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package asset

import (
	"encoding/binary"

	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// cfaFrameOffsetSlots is the fixed number of per-frame offset entries the
// CFA header reserves, regardless of how many are actually used by
// frame_count.
const cfaFrameOffsetSlots = 30

// cfaFixedHeaderSize covers every field up to (but not including) the
// bpp-derived color subtable: two u16 each for width, height,
// compressed_width, offset_x, offset_y; one byte each for bpp and
// frame_count; one u16 for header_size; 30 u16 per-frame offsets; one u16
// for total_size.
const cfaFixedHeaderSize = 2*5 + 1 + 1 + 2 + cfaFrameOffsetSlots*2 + 2

// CFA is the parsed header and color subtable of a CFA entry. Per-frame
// pixel decoding is deliberately not attempted here: the source this
// format was recovered from leaves the per-frame payload framing
// unspecified beyond the offsets table, and no captured sample data was
// available to reverse-engineer it against. ParseCFA therefore stops at
// the header/subtable boundary; FrameOffsets lets a caller with sample
// data locate each frame's payload within the entry's raw bytes.
type CFA struct {
	Width, Height    int
	CompressedWidth  int
	OffsetX, OffsetY int
	BPP              int
	FrameCount       int
	HeaderSize       int
	FrameOffsets     [cfaFrameOffsetSlots]int
	TotalSize        int
	ColorSubtable    []byte
}

// ParseCFA reads a CFA entry's fixed header and bpp-derived color
// subtable. It does not decode frame pixel data (see CFA's doc comment).
func ParseCFA(data []byte) (*CFA, error) {
	if len(data) < cfaFixedHeaderSize {
		return nil, errors.Annotate(errs.Truncated).Reason("CFA header truncated").Err()
	}
	c := &CFA{}
	pos := 0
	u16 := func() int {
		v := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		return v
	}
	c.Width = u16()
	c.Height = u16()
	c.CompressedWidth = u16()
	c.OffsetX = u16()
	c.OffsetY = u16()
	c.BPP = int(data[pos])
	pos++
	c.FrameCount = int(data[pos])
	pos++
	c.HeaderSize = u16()
	for i := 0; i < cfaFrameOffsetSlots; i++ {
		c.FrameOffsets[i] = u16()
	}
	c.TotalSize = u16()
	if pos != cfaFixedHeaderSize {
		return nil, errors.Reason("CFA fixed header size accounting is wrong: consumed %(pos)d, want %(want)d").D("pos", pos).D("want", cfaFixedHeaderSize).Err()
	}

	if c.BPP == 0 || c.BPP > 8 {
		return nil, errors.Annotate(errs.Corrupt).Reason("CFA bpp=%(bpp)d has no defined color-subtable length").D("bpp", c.BPP).Err()
	}
	subtableLen := 1 << uint(c.BPP)
	if pos+subtableLen > len(data) {
		return nil, errors.Annotate(errs.Truncated).Reason("CFA color subtable truncated: need %(want)d bytes, have %(got)d").D("want", subtableLen).D("got", len(data)-pos).Err()
	}
	c.ColorSubtable = append([]byte(nil), data[pos:pos+subtableLen]...)

	return c, nil
}
