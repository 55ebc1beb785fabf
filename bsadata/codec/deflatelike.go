// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/bsadata"
	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// deflateWindowSize and deflatePrefill mirror lzss.go's constants but with
// the Deflate-like codec's own prefill depth (spec §4.3.2): 4036 bytes of
// 0x20 ahead of the first real byte, versus LZSS's 4078.
const (
	deflateWindowSize   = 4096
	deflatePrefill      = 4036
	deflateMaxDuplicate = 60
	deflateMinMatch     = 3
	deflatePrefillByte  = 0x20
)

// DeflateLikeEncode compresses data with the fixed built-in Huffman tree
// plus sliding-window back-references spec §4.3.2 describes. A literal
// byte b is transmitted as leaf b+627; a match of length is transmitted
// as leaf (length-3)+256+627.
func DeflateLikeEncode(data []byte) []byte {
	win := bsadata.NewSlidingWindow(deflateWindowSize, true)
	win.Fill(deflatePrefillByte, deflatePrefill)

	w := bsadata.NewBitsWriter()
	tree := bsadata.DefaultHuffmanTree

	pos := 0
	for pos < len(data) {
		remaining := data[pos:]
		start, length := win.FindDuplicate(remaining, deflateMaxDuplicate)
		if length >= deflateMinMatch {
			leaf := (length - deflateMinMatch) + 256 + bsadata.HuffmanValueBase
			tree.WritePathForLeaf(w, leaf)
			writeOffset(w, win.Pos(), start)
			for k := 0; k < length; k++ {
				win.Insert(data[pos+k])
			}
			pos += length
		} else {
			tree.WritePathForLeaf(w, int(data[pos])+bsadata.HuffmanValueBase)
			win.Insert(data[pos])
			pos++
		}
	}
	return w.Flush()
}

// writeOffset encodes the back-reference distance between cursor p and
// start as an 8-bit table index plus whatever extra low-bits the table
// entry still needs, per spec §4.3.2.
func writeOffset(w *bsadata.BitsWriter, p, start int) {
	offset := ((p - start - 1) % deflateWindowSize) & 0x0FFF
	if offset < 0 {
		offset += deflateWindowSize
	}
	offHigh := byte((offset >> 6) & 0x3F)
	offLow := byte(offset & 0x3F)

	i, ok := bsadata.FindOffsetIndex(offHigh)
	if !ok {
		// Every value in [0,64) is covered by the built-in table; this
		// cannot happen with a well-formed 12-bit offset.
		i = int(offHigh)
	}
	nExtra := int(bsadata.NBitsMissingInOffsetLowBits[i]) - 2
	idx := i + int(offLow>>uint(nExtra))

	w.AddBits(uint32(idx), 8)
	if nExtra > 0 {
		top := offLow >> uint(6-nExtra)
		w.AddBits(uint32(top), nExtra)
	}
}

// DeflateLikeDecode expands a Deflate-like stream produced by
// DeflateLikeEncode into exactly uncompressedSize bytes.
func DeflateLikeDecode(data []byte, uncompressedSize int) ([]byte, error) {
	win := bsadata.NewSlidingWindow(deflateWindowSize, false)
	win.Fill(deflatePrefillByte, deflatePrefill)

	r := bsadata.NewBitsReader(data)
	tree := bsadata.DefaultHuffmanTree

	out := make([]byte, 0, uncompressedSize)
	for len(out) < uncompressedSize {
		leaf, err := tree.NextLeaf(r)
		if err != nil {
			return nil, errors.Annotate(err).Reason("decoding deflate-like leaf at output offset %(off)d").D("off", len(out)).Err()
		}
		v := leaf - bsadata.HuffmanValueBase
		if v < 0 {
			return nil, errors.Annotate(errs.Corrupt).Reason("deflate-like stream decoded to out-of-range leaf %(leaf)d").D("leaf", leaf).Err()
		}
		if v < 256 {
			b := byte(v)
			out = append(out, b)
			win.Insert(b)
			continue
		}
		length := (v - 256) + deflateMinMatch
		offset, err := readOffset(r)
		if err != nil {
			return nil, err
		}
		p := win.Pos()
		for k := 0; k < length && len(out) < uncompressedSize; k++ {
			b := win.ReadAt(p - offset - 1 + k)
			out = append(out, b)
			win.Insert(b)
		}
	}
	return out, nil
}

func readOffset(r *bsadata.BitsReader) (int, error) {
	idxVal, err := r.ReadBitsValue(8)
	if err != nil {
		return 0, errors.Annotate(err).Reason("reading deflate-like offset index").Err()
	}
	idx := int(idxVal) & 0xFF
	offHigh := bsadata.OffsetHighBits[idx]
	nExtra := int(bsadata.NBitsMissingInOffsetLowBits[idx]) - 2

	offLow := uint32(idx)
	if nExtra > 0 {
		extra, err := r.ReadBitsValue(nExtra)
		if err != nil {
			return 0, errors.Annotate(err).Reason("reading deflate-like offset extra bits").Err()
		}
		offLow = (offLow << uint(nExtra)) | extra
	}
	offset := int(offLow&0x3F) | (int(offHigh) << 6)
	return offset, nil
}
