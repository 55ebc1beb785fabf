// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"github.com/Dysperia/ArenaToolBox-Library/bsadata"
)

// lzssWindowSize and lzssPrefill are the sliding-window constants the
// LZSS codec shares with the original Tamsoft-style engines this is
// grounded on: a 4KB ring buffer pre-seeded with 0xFEE=4078 bytes of
// 0x20 before the first real byte is ever written.
const (
	lzssWindowSize      = 4096
	lzssPrefill         = 4078
	lzssMaxDuplicate    = 18
	lzssMinMatch        = 3
	lzssPrefillByte     = 0x20
)

// LZSSEncode compresses data into the flag-byte/8-op group stream spec
// §4.3.1 describes.
func LZSSEncode(data []byte) []byte {
	win := bsadata.NewSlidingWindow(lzssWindowSize, true)
	win.Fill(lzssPrefillByte, lzssPrefill)

	var out []byte
	pos := 0
	for pos < len(data) {
		var flag byte
		var ops []byte
		opCount := 0
		for opCount < 8 && pos < len(data) {
			remaining := data[pos:]
			start, length := win.FindDuplicate(remaining, lzssMaxDuplicate)
			if length >= lzssMinMatch {
				highNibble := byte((start >> 8) & 0x0F)
				b1 := byte(start & 0xFF)
				b2 := (highNibble << 4) | byte((length-lzssMinMatch)&0x0F)
				ops = append(ops, b1, b2)
				for k := 0; k < length; k++ {
					win.Insert(data[pos+k])
				}
				pos += length
			} else {
				flag |= 1 << uint(opCount)
				ops = append(ops, data[pos])
				win.Insert(data[pos])
				pos++
			}
			opCount++
		}
		out = append(out, flag)
		out = append(out, ops...)
	}
	return out
}

// LZSSDecode expands an LZSS stream produced by LZSSEncode. It stops as
// soon as the input is exhausted, tolerating a partial trailing group the
// way spec §4.3.1 requires.
func LZSSDecode(data []byte) []byte {
	win := bsadata.NewSlidingWindow(lzssWindowSize, false)
	win.Fill(lzssPrefillByte, lzssPrefill)

	out := []byte{}
	pos := 0
	for pos < len(data) {
		flag := data[pos]
		pos++
		for bit := 0; bit < 8; bit++ {
			if pos >= len(data) {
				return out
			}
			if (flag>>uint(bit))&1 == 1 {
				b := data[pos]
				pos++
				out = append(out, b)
				win.Insert(b)
				continue
			}
			if pos+1 >= len(data) {
				return out
			}
			b1, b2 := data[pos], data[pos+1]
			pos += 2
			length := int(b2&0x0F) + lzssMinMatch
			startIndex := (int(b2&0xF0) << 4) | int(b1)
			for k := 0; k < length; k++ {
				c := win.ReadAt(startIndex + k)
				out = append(out, c)
				win.Insert(c)
			}
		}
	}
	return out
}
