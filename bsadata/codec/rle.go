// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// rleMaxRun is the largest count either a run or a literal token can carry
// in one control byte: 7 bits of count plus the implicit +1.
const rleMaxRun = 128

// RLEEncode compresses a width*height byte grid line by line, per spec
// §4.3.3. Each line is encoded independently, so a fresh control byte
// sequence starts at every line boundary.
func RLEEncode(data []byte, width, height int) []byte {
	var out []byte
	for y := 0; y < height; y++ {
		line := data[y*width : (y+1)*width]
		out = append(out, encodeLine(line)...)
	}
	return out
}

func encodeLine(line []byte) []byte {
	var out []byte
	n := len(line)
	pos := 0
	for pos < n {
		runLen := runLengthAt(line, pos)
		if runLen >= 2 {
			out = append(out, 0x80|byte(runLen-1), line[pos])
			pos += runLen
			continue
		}
		litStart := pos
		for pos < n && pos-litStart < rleMaxRun && runLengthAt(line, pos) < 2 {
			pos++
		}
		litLen := pos - litStart
		out = append(out, byte(litLen-1))
		out = append(out, line[litStart:pos]...)
	}
	return out
}

// runLengthAt returns how many bytes starting at pos equal line[pos],
// capped at rleMaxRun and at the bytes remaining in the line.
func runLengthAt(line []byte, pos int) int {
	n := len(line)
	limit := n - pos
	if limit > rleMaxRun {
		limit = rleMaxRun
	}
	run := 1
	for run < limit && line[pos+run] == line[pos] {
		run++
	}
	return run
}

// RLEDecode expands a width*height grid encoded by RLEEncode, decoding
// exactly width bytes per line for height lines.
func RLEDecode(data []byte, width, height int) ([]byte, error) {
	out := make([]byte, 0, width*height)
	pos := 0
	for y := 0; y < height; y++ {
		line, consumed, err := decodeLine(data[pos:], width)
		if err != nil {
			return nil, errors.Annotate(err).Reason("decoding RLE line %(y)d").D("y", y).Err()
		}
		out = append(out, line...)
		pos += consumed
	}
	return out, nil
}

func decodeLine(data []byte, width int) (line []byte, consumed int, err error) {
	out := make([]byte, 0, width)
	pos := 0
	for len(out) < width {
		if pos >= len(data) {
			return nil, 0, errors.Annotate(errs.Truncated).Reason("RLE line truncated before control byte").Err()
		}
		c := data[pos]
		pos++
		if c >= 128 {
			if pos >= len(data) {
				return nil, 0, errors.Annotate(errs.Truncated).Reason("RLE run token missing its value byte").Err()
			}
			v := data[pos]
			pos++
			count := int(c&0x7F) + 1
			if len(out)+count > width {
				return nil, 0, errors.Annotate(errs.Corrupt).Reason("RLE run overruns line width").Err()
			}
			for i := 0; i < count; i++ {
				out = append(out, v)
			}
		} else {
			count := int(c) + 1
			if len(out)+count > width {
				return nil, 0, errors.Annotate(errs.Corrupt).Reason("RLE literal span overruns line width").Err()
			}
			if pos+count > len(data) {
				return nil, 0, errors.Annotate(errs.Truncated).Reason("RLE literal span truncated").Err()
			}
			out = append(out, data[pos:pos+count]...)
			pos += count
		}
	}
	return out, pos, nil
}

// StreamRLEEncode is the per-line RLE codec invoked with width equal to
// the whole input and height 1, as CFA/DFA frame payloads use it.
func StreamRLEEncode(data []byte) []byte {
	return RLEEncode(data, len(data), 1)
}

// StreamRLEDecode is StreamRLEEncode's inverse.
func StreamRLEDecode(data []byte, uncompressedSize int) ([]byte, error) {
	return RLEDecode(data, uncompressedSize, 1)
}
