// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLZSS(t *testing.T) {
	t.Parallel()

	Convey("LZSS", t, func() {
		Convey("round-trips the empty input", func() {
			So(LZSSDecode(LZSSEncode(nil)), ShouldResemble, []byte{})
		})

		Convey("round-trips a single byte", func() {
			in := []byte{0x5A}
			So(LZSSDecode(LZSSEncode(in)), ShouldResemble, in)
		})

		Convey("round-trips plain ASCII text", func() {
			in := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox runs away")
			So(LZSSDecode(LZSSEncode(in)), ShouldResemble, in)
		})

		Convey("round-trips at the window-span boundary with a back-reference emitted", func() {
			in := bytes.Repeat([]byte{0x41}, 5000)
			encoded := LZSSEncode(in)
			So(LZSSDecode(encoded), ShouldResemble, in)
			// 5000 literal bytes would need 5000 output bytes plus flags;
			// a real back-reference keeps the stream far smaller.
			So(len(encoded), ShouldBeLessThan, len(in)/2)
		})

		Convey("round-trips highly repetitive binary data", func() {
			in := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 2000)
			So(LZSSDecode(LZSSEncode(in)), ShouldResemble, in)
		})
	})
}
