// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package codec implements the four byte-stream compressors ArchiveV1's
// asset payloads are built from — LZSS, the Deflate-like Huffman+dictionary
// codec, per-line RLE, stream RLE — plus the XOR cipher used for encrypted
// text, on top of the bit/window/huffman primitives in bsadata.
package codec

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// Kind is the IMG header's compression flag (spec §4.4.4): it selects
// which of the four codecs a payload was packed with.
type Kind byte

// The compression flags IMG headers carry.
const (
	Raw         Kind = 0x00
	LineRLE     Kind = 0x02
	LZSS        Kind = 0x04
	DeflateLike Kind = 0x08
)

// Valid returns a non-nil error iff k is not one of the four known flags.
func (k Kind) Valid() error {
	switch k {
	case Raw, LineRLE, LZSS, DeflateLike:
		return nil
	}
	return errors.Annotate(errs.Unsupported).Reason("unknown compression flag %(k)#x").D("k", byte(k)).Err()
}

// Params carries whichever of the per-codec parameters a given Kind's
// Encode/Decode needs. Width/Height drive LineRLE; UncompressedSize drives
// DeflateLike. Unused fields are ignored by the other kinds.
type Params struct {
	Width, Height    int
	UncompressedSize int
}

// Decode expands data according to k.
func (k Kind) Decode(data []byte, p Params) ([]byte, error) {
	switch k {
	case Raw:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	case LineRLE:
		return RLEDecode(data, p.Width, p.Height)
	case LZSS:
		return LZSSDecode(data), nil
	case DeflateLike:
		return DeflateLikeDecode(data, p.UncompressedSize)
	}
	return nil, k.Valid()
}

// Encode compresses data according to k.
func (k Kind) Encode(data []byte, p Params) ([]byte, error) {
	switch k {
	case Raw:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	case LineRLE:
		return RLEEncode(data, p.Width, p.Height), nil
	case LZSS:
		return LZSSEncode(data), nil
	case DeflateLike:
		return DeflateLikeEncode(data), nil
	}
	return nil, k.Valid()
}
