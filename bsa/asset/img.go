// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package asset

import (
	"context"
	"encoding/binary"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/logging"

	"github.com/Dysperia/ArenaToolBox-Library/bsadata/codec"
	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// imgHeaderSize is the fixed 12-byte IMG header (spec §4.5).
const imgHeaderSize = 12

// Image is a decoded IMG payload: its pixel buffer plus the placement
// and palette metadata the header carries.
type Image struct {
	OffsetX, OffsetY int
	Width, Height    int
	Pixels           []byte
	Palette          *Palette
}

// DecodeIMG parses and decompresses one IMG entry's raw bytes. sixBitPalette
// selects whether an attached palette's RGB triples are 6-bit VGA-scaled
// and need ExpandPaletteEntry applied (spec §4.5 leaves this caller-known,
// not header-carried — see SPEC_FULL.md §7).
func DecodeIMG(ctx context.Context, data []byte, sixBitPalette bool) (*Image, error) {
	if len(data) < imgHeaderSize {
		return nil, errors.Annotate(errs.Truncated).Reason("IMG header truncated").Err()
	}
	offsetX := int(binary.LittleEndian.Uint16(data[0:2]))
	offsetY := int(binary.LittleEndian.Uint16(data[2:4]))
	width := int(binary.LittleEndian.Uint16(data[4:6]))
	height := int(binary.LittleEndian.Uint16(data[6:8]))
	compression := codec.Kind(data[8])
	paletteFlag := data[9]
	rawSize := int(binary.LittleEndian.Uint16(data[10:12]))

	rest := data[imgHeaderSize:]
	if len(rest) < rawSize {
		return nil, errors.Annotate(errs.Truncated).
			Reason("IMG payload is %(got)d bytes, header declares %(want)d").
			D("got", len(rest)).D("want", rawSize).Err()
	}

	payload := rest[:rawSize]
	params := codec.Params{Width: width, Height: height}

	if compression == codec.DeflateLike {
		if len(payload) < 2 {
			return nil, errors.Annotate(errs.Truncated).Reason("IMG deflate-like payload missing its uncompressed-size prefix").Err()
		}
		params.UncompressedSize = int(binary.LittleEndian.Uint16(payload[0:2]))
		payload = payload[2:]
	}

	if err := compression.Valid(); err != nil {
		return nil, errors.Annotate(errs.Unsupported).Reason("IMG compression flag %(flag)#x: %(err)v").D("flag", byte(compression)).D("err", err).Err()
	}

	pixels, err := compression.Decode(payload, params)
	if err != nil {
		return nil, errors.Annotate(err).Reason("decoding IMG pixel data").Err()
	}
	if len(pixels) != width*height {
		return nil, errors.Annotate(errs.Corrupt).
			Reason("IMG pixel buffer is %(got)d bytes, want %(want)d (width*height)").
			D("got", len(pixels)).D("want", width*height).Err()
	}

	img := &Image{
		OffsetX: offsetX,
		OffsetY: offsetY,
		Width:   width,
		Height:  height,
		Pixels:  pixels,
	}

	trailer := rest[rawSize:]
	if paletteFlag&1 != 0 {
		if len(trailer) < PaletteSize {
			return nil, errors.Annotate(errs.Corrupt).
				Reason("IMG palette flag set but only %(got)d trailing bytes available, need %(want)d").
				D("got", len(trailer)).D("want", PaletteSize).Err()
		}
		pal, err := ParsePalette(trailer[:PaletteSize], sixBitPalette)
		if err != nil {
			return nil, err
		}
		img.Palette = &pal
		trailer = trailer[PaletteSize:]
	}
	if len(trailer) > 0 {
		logging.Errorf(ctx, "IMG entry has %d unexpected trailing bytes after its declared payload/palette", len(trailer))
	}

	return img, nil
}
