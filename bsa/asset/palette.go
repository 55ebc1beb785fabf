// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package asset

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// PaletteSize is the fixed byte length of the 256-entry RGB palette an
// IMG payload may carry (spec §4.5): 256 triples of 3 bytes each.
const PaletteSize = 256 * 3

// Palette is an opaque 256-entry RGB lookup table; bookkeeping beyond
// this table (e.g. indexed-color application to a pixel buffer) is an
// external collaborator per spec §1.
type Palette [256][3]byte

// ParsePalette reads a 768-byte RGB triple table, optionally expanding
// each component from a 6-bit VGA-style scale to 8 bits (spec §4.5's
// "optionally 6-bit scaled"; the expansion itself is a supplemented
// detail — see DESIGN.md/SPEC_FULL.md §7).
func ParsePalette(data []byte, sixBitScaled bool) (Palette, error) {
	var p Palette
	if len(data) < PaletteSize {
		return p, errors.Annotate(errs.Corrupt).
			Reason("palette is %(got)d bytes, need %(want)d").
			D("got", len(data)).D("want", PaletteSize).Err()
	}
	for i := 0; i < 256; i++ {
		r, g, b := data[i*3], data[i*3+1], data[i*3+2]
		if sixBitScaled {
			r, g, b = ExpandPaletteEntry(r), ExpandPaletteEntry(g), ExpandPaletteEntry(b)
		}
		p[i] = [3]byte{r, g, b}
	}
	return p, nil
}

// ExpandPaletteEntry widens a 6-bit VGA-style color component to 8 bits
// by replicating its top 2 bits into the newly vacated low bits.
func ExpandPaletteEntry(v byte) byte {
	return (v << 2) | (v >> 4)
}
