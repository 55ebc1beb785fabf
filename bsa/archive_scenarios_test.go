// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Dysperia/ArenaToolBox-Library/bsadata/codec"
)

// TestConcreteScenarios exercises the seed scenarios from spec §8 end to
// end.
func TestConcreteScenarios(t *testing.T) {
	t.Parallel()

	Convey("concrete scenarios", t, func() {
		dir := t.TempDir()

		Convey("1. empty archive save", func() {
			a := New()
			So(a.CreateNew(), ShouldBeNil)
			out := filepath.Join(dir, "out.bsa")
			So(a.Save(out), ShouldBeNil)

			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{0x00, 0x00})

			b := New()
			So(b.Open(out), ShouldBeNil)
			So(b.FileNumber(), ShouldEqual, 0)
		})

		Convey("2. single-file archive with exact byte layout", func() {
			a := New()
			So(a.CreateNew(), ShouldBeNil)
			p := stageFile(t, dir, "a.txt", []byte{0x61, 0x62, 0x63})
			_, err := a.AddOrUpdate(p)
			So(err, ShouldBeNil)

			out := filepath.Join(dir, "out.bsa")
			So(a.Save(out), ShouldBeNil)

			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			want := []byte{
				0x01, 0x00, // count = 1
				0x61, 0x62, 0x63, // payload "abc"
				0x41, 0x2E, 0x54, 0x58, 0x54, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // "A.TXT" padded to 14
				0x03, 0x00, 0x00, 0x00, // size = 3
			}
			So(data, ShouldResemble, want)

			b := New()
			So(b.Open(out), ShouldBeNil)
			fileData, err := b.FileData(b.Entries()[0])
			So(err, ShouldBeNil)
			So(fileData, ShouldResemble, []byte{0x61, 0x62, 0x63})
		})

		Convey("3. LZSS round-trip at the window-span boundary", func() {
			input := bytes.Repeat([]byte{0x41}, 5000)
			encoded := codec.LZSSEncode(input)
			So(codec.LZSSDecode(encoded), ShouldResemble, input)
			So(len(encoded), ShouldBeLessThan, len(input))
		})

		Convey("4. per-line RLE literal/run boundary", func() {
			input := []byte{
				0x01, 0x01, 0x01, 0x02, 0x03,
				0x04, 0x04, 0x04, 0x04, 0x04,
			}
			encoded := codec.RLEEncode(input, 5, 2)
			So(encoded[0], ShouldEqual, byte(0x82))
			So(encoded[1], ShouldEqual, byte(0x01))
			So(encoded[len(encoded)-2], ShouldEqual, byte(0x84))
			So(encoded[len(encoded)-1], ShouldEqual, byte(0x04))

			out, err := codec.RLEDecode(encoded, 5, 2)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, input)
		})

		Convey("5. XOR determinism", func() {
			input := []byte("Hello")
			a := codec.XOR(input, codec.DefaultXORKey)
			b := codec.XOR(input, codec.DefaultXORKey)
			So(a, ShouldResemble, b)
			So(codec.XOR(a, codec.DefaultXORKey), ShouldResemble, input)
		})

		Convey("6. corruption detection", func() {
			a := New()
			So(a.CreateNew(), ShouldBeNil)
			p := stageFile(t, dir, "a.txt", []byte{0x61, 0x62, 0x63})
			_, err := a.AddOrUpdate(p)
			So(err, ShouldBeNil)
			out := filepath.Join(dir, "out.bsa")
			So(a.Save(out), ShouldBeNil)

			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			// Decrement the trailing size field for the one entry.
			sizeOffset := len(data) - 4
			data[sizeOffset]--
			So(os.WriteFile(out, data, 0666), ShouldBeNil)

			b := New()
			err = b.Open(out)
			So(err, ShouldNotBeNil)
		})
	})
}
