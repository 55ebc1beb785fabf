// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKind(t *testing.T) {
	t.Parallel()

	Convey("Kind", t, func() {
		Convey("Valid accepts only the four known flags", func() {
			So(Raw.Valid(), ShouldBeNil)
			So(LineRLE.Valid(), ShouldBeNil)
			So(LZSS.Valid(), ShouldBeNil)
			So(DeflateLike.Valid(), ShouldBeNil)
			So(Kind(0x01).Valid(), ShouldNotBeNil)
			So(Kind(0xFF).Valid(), ShouldNotBeNil)
		})

		Convey("Raw round-trips unchanged", func() {
			in := []byte("payload")
			enc, err := Raw.Encode(in, Params{})
			So(err, ShouldBeNil)
			out, err := Raw.Decode(enc, Params{})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
		})

		Convey("LineRLE round-trips through the dispatcher with width/height", func() {
			in := []byte{1, 1, 1, 2, 3, 4, 4, 4, 4, 4}
			p := Params{Width: 5, Height: 2}
			enc, err := LineRLE.Encode(in, p)
			So(err, ShouldBeNil)
			out, err := LineRLE.Decode(enc, p)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
		})

		Convey("LZSS round-trips through the dispatcher", func() {
			in := []byte("abcabcabcabcabcabc")
			enc, err := LZSS.Encode(in, Params{})
			So(err, ShouldBeNil)
			out, err := LZSS.Decode(enc, Params{})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
		})

		Convey("DeflateLike round-trips through the dispatcher with UncompressedSize", func() {
			in := []byte("abcabcabcabcabcabc")
			p := Params{UncompressedSize: len(in)}
			enc, err := DeflateLike.Encode(in, p)
			So(err, ShouldBeNil)
			out, err := DeflateLike.Decode(enc, p)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
		})

		Convey("an unknown Kind fails both Encode and Decode", func() {
			_, err := Kind(0x01).Encode([]byte("x"), Params{})
			So(err, ShouldNotBeNil)
			_, err = Kind(0x01).Decode([]byte("x"), Params{})
			So(err, ShouldNotBeNil)
		})
	})
}
