// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package asset

import (
	"encoding/binary"

	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/bsadata/codec"
	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// dfaHeaderSize is the fixed 12-byte DFA header (spec §4.5).
const dfaHeaderSize = 12

// DFA is a decoded multi-frame animation: a first frame decoded directly
// from stream RLE, followed by frames reconstructed as a copy of frame 0
// with a sequence of byte-range patches applied.
type DFA struct {
	FrameCount       int
	OffsetX, OffsetY int
	Width, Height    int
	Frames           [][]byte
}

// DecodeDFA parses and expands one DFA entry's raw bytes.
func DecodeDFA(data []byte) (*DFA, error) {
	if len(data) < dfaHeaderSize {
		return nil, errors.Annotate(errs.Truncated).Reason("DFA header truncated").Err()
	}
	frameCount := int(binary.LittleEndian.Uint16(data[0:2]))
	offsetX := int(binary.LittleEndian.Uint16(data[2:4]))
	offsetY := int(binary.LittleEndian.Uint16(data[4:6]))
	width := int(binary.LittleEndian.Uint16(data[6:8]))
	height := int(binary.LittleEndian.Uint16(data[8:10]))
	frameSize := width * height

	pos := dfaHeaderSize
	readU16 := func(what string) (int, error) {
		if pos+2 > len(data) {
			return 0, errors.Annotate(errs.Truncated).Reason("DFA: truncated reading %(what)s").D("what", what).Err()
		}
		v := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		return v, nil
	}

	compressedSize, err := readU16("frame 0 compressed size")
	if err != nil {
		return nil, err
	}
	if pos+compressedSize > len(data) {
		return nil, errors.Annotate(errs.Truncated).Reason("DFA frame 0 payload truncated").Err()
	}
	frame0, err := codec.StreamRLEDecode(data[pos:pos+compressedSize], frameSize)
	if err != nil {
		return nil, errors.Annotate(err).Reason("decoding DFA frame 0").Err()
	}
	pos += compressedSize

	dfa := &DFA{
		FrameCount: frameCount,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		Width:      width,
		Height:     height,
		Frames:     make([][]byte, frameCount),
	}
	if frameCount > 0 {
		dfa.Frames[0] = frame0
	}

	for k := 1; k < frameCount; k++ {
		diffSize, err := readU16("frame diff size")
		if err != nil {
			return nil, err
		}
		diffStart := pos
		chunkCount, err := readU16("frame chunk count")
		if err != nil {
			return nil, err
		}

		frame := make([]byte, frameSize)
		copy(frame, frame0)
		covered := make([]bool, frameSize)

		for c := 0; c < chunkCount; c++ {
			startOffset, err := readU16("patch start offset")
			if err != nil {
				return nil, err
			}
			pixelCount, err := readU16("patch pixel count")
			if err != nil {
				return nil, err
			}
			if pos+pixelCount > len(data) {
				return nil, errors.Annotate(errs.Truncated).Reason("DFA patch bytes truncated").Err()
			}
			if startOffset+pixelCount > frameSize {
				return nil, errors.Annotate(errs.Corrupt).
					Reason("DFA frame %(k)d patch [%(start)d,%(end)d) exceeds width*height=%(size)d").
					D("k", k).D("start", startOffset).D("end", startOffset+pixelCount).D("size", frameSize).Err()
			}
			for i := 0; i < pixelCount; i++ {
				if covered[startOffset+i] {
					return nil, errors.Annotate(errs.Corrupt).
						Reason("DFA frame %(k)d has overlapping patches at offset %(off)d").
						D("k", k).D("off", startOffset+i).Err()
				}
				covered[startOffset+i] = true
			}
			copy(frame[startOffset:startOffset+pixelCount], data[pos:pos+pixelCount])
			pos += pixelCount
		}

		if pos-diffStart != diffSize {
			return nil, errors.Annotate(errs.Corrupt).
				Reason("DFA frame %(k)d diff block is %(got)d bytes, header declared %(want)d").
				D("k", k).D("got", pos-diffStart).D("want", diffSize).Err()
		}
		dfa.Frames[k] = frame
	}

	return dfa, nil
}
