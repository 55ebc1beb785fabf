// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsadata

import (
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// HuffmanValueBase is the fixed offset the Deflate-like codec adds to a
// literal/match-length "value" before it is ever handed to the tree: the
// codec writes huffman_path_for_leaf(value + 627) and reads
// huffman_next_leaf(bits) - 627 to get back the value. The tree's own leaf
// space just needs to be wide enough to hold every value the codec
// actually produces once that base is added.
const HuffmanValueBase = 627

// HuffmanLeafCount is the tree's total leaf space. The codec's value space
// is [0,256) literal bytes and [256,627) match lengths v-256+3 (3..374),
// so the widest leaf it ever transmits is 626+627=1253 in principle, but
// this implementation's encoder policy only ever emits match lengths up
// to 60 (leaf up to (60-3)+256+627=940); 1024 (2^10) comfortably covers
// every leaf either side of the wire can produce while keeping the code
// width at a round power of two.
const HuffmanLeafCount = 1024

// huffmanCodeBits is the fixed path width: log2(HuffmanLeafCount).
//
// The original compiled Huffman table isn't recoverable from the
// retrieval pack (spec §9 Open Questions), so this implementation
// substitutes a fixed-width prefix code over the same leaf space rather
// than guessing at frequency-weighted code lengths: every leaf gets a
// distinct 10-bit path, which is trivially prefix-free and satisfies the
// "walk one bit at a time to a leaf" decode contract, just without the
// original's compression gain from unequal code lengths. See DESIGN.md.
const huffmanCodeBits = 10

type huffNode struct {
	leaf        int // -1 for internal nodes
	left, right *huffNode
}

// HuffmanTree is a fixed binary prefix-code tree over HuffmanLeafCount
// leaves, built once and never transmitted.
type HuffmanTree struct {
	root  *huffNode
	paths [HuffmanLeafCount]uint32
}

func newHuffmanTree() *HuffmanTree {
	t := &HuffmanTree{root: &huffNode{leaf: -1}}
	for v := 0; v < HuffmanLeafCount; v++ {
		t.paths[v] = uint32(v)
		node := t.root
		for bit := huffmanCodeBits - 1; bit >= 0; bit-- {
			if (v>>uint(bit))&1 == 0 {
				if node.left == nil {
					node.left = &huffNode{leaf: -1}
				}
				node = node.left
			} else {
				if node.right == nil {
					node.right = &huffNode{leaf: -1}
				}
				node = node.right
			}
		}
		node.leaf = v
	}
	return t
}

// DefaultHuffmanTree is the built-in table every Deflate-like encoder and
// decoder instance shares.
var DefaultHuffmanTree = newHuffmanTree()

// NextLeaf descends the tree one bit at a time, MSB-first, consuming bits
// from r until a leaf is reached, and returns that leaf's value.
func (t *HuffmanTree) NextLeaf(r *BitsReader) (int, error) {
	node := t.root
	for i := 0; i < huffmanCodeBits; i++ {
		b, err := r.GetBits()
		if err != nil {
			return 0, errors.Annotate(err).Reason("reading huffman path bit %(i)d").D("i", i).Err()
		}
		bit := (b >> 7) & 1
		if err := r.RemoveBits(1); err != nil {
			return 0, err
		}
		if bit == 0 {
			if node.left == nil {
				return 0, errors.Annotate(errs.Corrupt).Reason("no left child at huffman path bit %(i)d").D("i", i).Err()
			}
			node = node.left
		} else {
			if node.right == nil {
				return 0, errors.Annotate(errs.Corrupt).Reason("no right child at huffman path bit %(i)d").D("i", i).Err()
			}
			node = node.right
		}
	}
	if node.leaf < 0 {
		return 0, errors.Annotate(errs.Corrupt).Reason("huffman code decoded to an unused leaf").Err()
	}
	return node.leaf, nil
}

// WritePathForLeaf emits the fixed bit path for leaf to w.
func (t *HuffmanTree) WritePathForLeaf(w *BitsWriter, leaf int) error {
	if leaf < 0 || leaf >= HuffmanLeafCount {
		return errors.Reason("huffman leaf %(leaf)d out of range").D("leaf", leaf).Err()
	}
	w.AddBits(t.paths[leaf], huffmanCodeBits)
	return nil
}

// OffsetHighBits and NBitsMissingInOffsetLowBits are the Deflate-like
// codec's other pair of built-in constants (spec §4.3.2): a 256-entry map
// from an 8-bit transmitted index to the offset's high 6 bits, and the
// count of extra low-bit-stream bits each index still needs.
//
// Like the Huffman tree above, the original captured values aren't
// available. This implementation generates a self-consistent substitute:
// every off_high in [0,64) maps from the index equal to itself
// (OffsetHighBits[i] = i%64), each needing 6 extra bits
// (NBitsMissingInOffsetLowBits[i] = 8, i.e. n_extra = 6) to pin down the
// low 6 bits of the offset from scratch. This satisfies the "smallest i
// with a matching high-bits entry" tie-break the encoder needs and lets
// every 12-bit offset in [0,4096) round-trip. See DESIGN.md.
var (
	OffsetHighBits               [256]byte
	NBitsMissingInOffsetLowBits  [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		OffsetHighBits[i] = byte(i % 64)
		NBitsMissingInOffsetLowBits[i] = 8
	}
}

// FindOffsetIndex returns the smallest i in [0,256) with
// OffsetHighBits[i] == offHigh, as the encoder's tie-break rule requires.
func FindOffsetIndex(offHigh byte) (int, bool) {
	for i := 0; i < 256; i++ {
		if OffsetHighBits[i] == offHigh {
			return i, true
		}
	}
	return 0, false
}
