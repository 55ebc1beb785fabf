// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

// Observer is the archive's notification surface (spec §6): four
// synchronous, single-argument channels fired after the mutation that
// caused them has already landed in memory. Each field is optional; an
// unset field is simply never called.
//
// This is deliberately a plain struct of functions rather than an
// interface (spec §9's design note) — callers that only care about one
// channel don't need to stub out the other three.
type Observer struct {
	ArchiveOpened    func(opened bool)
	ArchiveClosed    func(closed bool)
	FileListModified func(entries []*Entry)
	FileModified     func(entry *Entry)
}

func (a *Archive) fireOpened() {
	if a.obs.ArchiveOpened != nil {
		a.obs.ArchiveOpened(true)
	}
}

func (a *Archive) fireClosed() {
	if a.obs.ArchiveClosed != nil {
		a.obs.ArchiveClosed(true)
	}
}

func (a *Archive) fireFileListModified() {
	if a.obs.FileListModified != nil {
		a.obs.FileListModified(a.entries)
	}
}

func (a *Archive) fireFileModified(e *Entry) {
	if a.obs.FileModified != nil {
		a.obs.FileModified(e)
	}
}
