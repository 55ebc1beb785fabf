// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsadata

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBits(t *testing.T) {
	t.Parallel()

	Convey("BitsWriter/BitsReader", t, func() {
		Convey("round-trips a handful of odd-width values", func() {
			w := NewBitsWriter()
			w.AddBits(0x1, 1)
			w.AddBits(0x2A, 6)
			w.AddBits(0xFF, 8)
			w.AddBits(0x3, 2)
			w.AddBits(0x0, 3)
			data := w.Flush()

			r := NewBitsReader(data)
			b, err := r.ReadBitsValue(1)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, uint32(0x1))

			b, err = r.ReadBitsValue(6)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, uint32(0x2A))

			b, err = r.ReadBitsValue(8)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, uint32(0xFF))

			b, err = r.ReadBitsValue(2)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, uint32(0x3))
		})

		Convey("NextByte requires byte alignment", func() {
			w := NewBitsWriter()
			w.AddBits(0xAB, 8)
			w.AddBits(0xCD, 8)
			r := NewBitsReader(w.Flush())

			b, err := r.NextByte()
			So(err, ShouldBeNil)
			So(b, ShouldEqual, byte(0xAB))

			err = r.RemoveBits(3)
			So(err, ShouldBeNil)
			_, err = r.NextByte()
			So(err, ShouldNotBeNil)
		})

		Convey("RemoveBits fails with Truncated once the queue is empty", func() {
			r := NewBitsReader([]byte{0xFF})
			So(r.RemoveBits(8), ShouldBeNil)
			So(r.RemoveBits(1), ShouldNotBeNil)
		})

		Convey("GetBits zero-pads past the end of data", func() {
			r := NewBitsReader([]byte{0x80})
			So(r.RemoveBits(4), ShouldBeNil)
			b, err := r.GetBits()
			So(err, ShouldBeNil)
			// Four real bits (0000) followed by four padding zero bits.
			So(b, ShouldEqual, byte(0x00))
		})

		Convey("Exhausted reports true only once every pending bit is gone", func() {
			r := NewBitsReader([]byte{0x01})
			So(r.Exhausted(), ShouldBeFalse)
			So(r.RemoveBits(8), ShouldBeNil)
			So(r.Exhausted(), ShouldBeTrue)
		})
	})
}
