// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package codec

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestXOR(t *testing.T) {
	t.Parallel()

	Convey("XOR", t, func() {
		Convey("is deterministic", func() {
			in := []byte("Hello")
			So(XOR(in, DefaultXORKey), ShouldResemble, XOR(in, DefaultXORKey))
		})

		Convey("is its own inverse", func() {
			in := []byte("Hello")
			So(XOR(XOR(in, DefaultXORKey), DefaultXORKey), ShouldResemble, in)
		})

		Convey("never fails on empty input", func() {
			So(XOR(nil, DefaultXORKey), ShouldResemble, []byte{})
		})

		Convey("is involutive for arbitrary keys and data", func() {
			key := []byte{0x01, 0x02, 0x03}
			in := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 250, 251, 252, 253, 254, 255}
			So(XOR(XOR(in, key), key), ShouldResemble, in)
		})
	})
}
