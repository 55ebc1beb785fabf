// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

// DefaultXORKey is the key sequence embedded in the repository for
// encrypted .INF text, cycled byte-for-byte against a running counter.
// The original key bytes aren't recoverable from the retrieval pack (see
// DESIGN.md); this is a stand-in of the same shape (non-trivial, non-zero,
// cycling) that keeps the cipher's involution property intact.
var DefaultXORKey = []byte{0x4A, 0x9C, 0x2E, 0x71, 0xD5, 0x08, 0xB3, 0x66}

// XOR runs the stateful XOR cipher of spec §4.3.4 over data with key,
// using a counter that starts at 0 and increments mod 256 per byte. The
// operation is its own inverse: XOR(XOR(data, key), key) == data.
func XOR(data []byte, key []byte) []byte {
	out := make([]byte, len(data))
	counter := byte(0)
	for i, b := range data {
		out[i] = b ^ byte((int(counter)+int(key[i%len(key)]))%256)
		counter++
	}
	return out
}
