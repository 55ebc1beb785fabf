// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package bsadata implements the low-level primitives ArchiveV1's packed
// asset codecs are built from: MSB-first bit streaming (BitsReader /
// BitsWriter), a fixed-capacity sliding-window dictionary with a 3-gram
// duplicate index (SlidingWindow), and the fixed, built-in Huffman tree and
// offset tables the Deflate-like codec uses (HuffmanTree).
//
// None of these types are transmitted over the wire; they are the shared
// machinery the codecs in bsadata/codec assemble into full encode/decode
// passes.
package bsadata
