// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package bsa implements the ArchiveV1 container (spec §4.4): a flat
// concatenation of file payloads followed by a trailing, fixed-width file
// table, with in-memory staging of adds/updates/deletes and an atomic
// whole-file rewrite on Save.
package bsa

import (
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/luci/luci-go/common/data/stringset"
	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// tableEntrySize is one file-table record: 14 bytes of NUL-padded ASCII
// name plus a u32LE size (spec §4.4.1).
const tableEntrySize = 18
const nameFieldSize = 14

type readSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Archive is an opened or freshly created ArchiveV1 container (spec §3,
// C6). The zero value is a closed Archive ready for Open or CreateNew.
type Archive struct {
	sourcePath string
	src        readSeekCloser

	entries       []*Entry
	originalCount uint16
	opened        bool

	obs Observer
}

// New returns a closed Archive ready for Open or CreateNew.
func New() *Archive {
	return &Archive{}
}

// Open reads path's file table and positions the Archive to serve reads
// of its entries on demand. It fails with errs.AlreadyOpen if this
// instance is already open, and errs.Corrupt if the file's declared sizes
// don't add up to its length.
func (a *Archive) Open(path string, opts ...Option) error {
	if a.opened {
		return errors.Annotate(errs.AlreadyOpen).Reason("archive already open").Err()
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Annotate(err).Reason("opening %(path)q").D("path", path).Err()
	}

	data := optionData{}
	for _, o := range opts {
		o(&data)
	}

	if err := a.openFrom(f, &data); err != nil {
		f.Close()
		return err
	}
	a.sourcePath = path
	return nil
}

func (a *Archive) openFrom(f readSeekCloser, data *optionData) error {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Annotate(err).Reason("seeking to end").Err()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return errors.Annotate(err).Reason("seeking to start").Err()
	}

	var countBuf [2]byte
	if _, err := io.ReadFull(f, countBuf[:]); err != nil {
		return errors.Annotate(errs.Truncated).Reason("reading entry count: %(err)v").D("err", err).Err()
	}
	count := binary.LittleEndian.Uint16(countBuf[:])

	tableOffset := size - int64(count)*tableEntrySize
	if tableOffset < 2 {
		return errors.Annotate(errs.Corrupt).Reason("file table would start before offset 2").Err()
	}
	if _, err := f.Seek(tableOffset, io.SeekStart); err != nil {
		return errors.Annotate(err).Reason("seeking to file table").Err()
	}

	table := make([]byte, int64(count)*tableEntrySize)
	if _, err := io.ReadFull(f, table); err != nil {
		return errors.Annotate(errs.Truncated).Reason("reading file table: %(err)v").D("err", err).Err()
	}

	entries := make([]*Entry, count)
	offset := int64(2)
	var totalSize int64
	for i := 0; i < int(count); i++ {
		rec := table[i*tableEntrySize : (i+1)*tableEntrySize]
		name := decodeNameField(rec[:nameFieldSize])
		entrySize := binary.LittleEndian.Uint32(rec[nameFieldSize:])
		entries[i] = &Entry{
			Name:            name,
			SizeInArchive:   entrySize,
			OffsetInArchive: offset,
		}
		offset += int64(entrySize)
		totalSize += int64(entrySize)
	}

	if 2+totalSize+int64(count)*tableEntrySize != size {
		return errors.Annotate(errs.Corrupt).
			Reason("declared sizes sum to %(want)d, file is %(got)d bytes").
			D("want", 2+totalSize+int64(count)*tableEntrySize).D("got", size).Err()
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	if err := validateEntries(entries); err != nil {
		return errors.Annotate(err).Reason("validating file table").Err()
	}

	a.src = f
	a.entries = entries
	a.originalCount = count
	a.opened = true
	a.obs = data.observer

	a.fireOpened()
	a.fireFileListModified()
	return nil
}

// validateEntries checks the archive-level invariants spec §3 C6 states:
// every entry individually valid, and no two entries sharing a name.
// Grounded on the teacher's stringset-based toc.Tree.Validate.
func validateEntries(entries []*Entry) error {
	names := stringset.New(len(entries))
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return err
		}
		if !names.Add(e.Name) {
			return errors.Annotate(errs.Corrupt).Reason("duplicate entry name %(name)q").D("name", e.Name).Err()
		}
	}
	return nil
}

func decodeNameField(field []byte) string {
	n := 0
	for n < len(field) && field[n] != 0 {
		n++
	}
	return string(field[:n])
}

func encodeNameField(name string) [nameFieldSize]byte {
	var field [nameFieldSize]byte
	copy(field[:], name)
	return field
}

// CreateNew becomes opened with zero entries and no source path,
// available for staging via AddOrUpdate and Save.
func (a *Archive) CreateNew(opts ...Option) error {
	if a.opened {
		return errors.Annotate(errs.AlreadyOpen).Reason("archive already open").Err()
	}
	data := optionData{}
	for _, o := range opts {
		o(&data)
	}
	a.sourcePath = ""
	a.src = nil
	a.entries = nil
	a.originalCount = 0
	a.opened = true
	a.obs = data.observer

	a.fireOpened()
	a.fireFileListModified()
	return nil
}

// Close resets the Archive to empty and releases its source file, if any.
func (a *Archive) Close() error {
	if !a.opened {
		return nil
	}
	a.opened = false
	a.entries = nil
	a.sourcePath = ""
	var err error
	if a.src != nil {
		err = a.src.Close()
		a.src = nil
	}
	a.fireClosed()
	return err
}

func (a *Archive) requireOpen() error {
	if !a.opened {
		return errors.Annotate(errs.NotOpen).Reason("archive is not open").Err()
	}
	return nil
}

// Entries returns the archive's entries in their current (sorted) order.
// The returned slice must not be mutated.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// FileNumber is the number of entries currently in the archive.
func (a *Archive) FileNumber() int {
	return len(a.entries)
}

// Size is the sum of every entry's effective size: staged_size for
// new/updated entries, size_in_archive otherwise.
func (a *Archive) Size() uint64 {
	var total uint64
	for _, e := range a.entries {
		total += e.effectiveSize()
	}
	return total
}

// IsModified reports whether Save would change anything relative to the
// state this Archive was opened with (spec §3 C6 invariant iii).
func (a *Archive) IsModified() bool {
	if len(a.entries) != int(a.originalCount) {
		return true
	}
	for _, e := range a.entries {
		if e.IsNew || e.IsUpdated {
			return true
		}
	}
	return false
}

func (a *Archive) find(name string) (*Entry, int) {
	upper := toUpperASCII(name)
	for i, e := range a.entries {
		if e.Name == upper {
			return e, i
		}
	}
	return nil, -1
}

// FileData returns an entry's bytes: for staged entries, the staging
// file's full contents; otherwise, size_in_archive bytes read from the
// archive's open source at offset_in_archive.
func (a *Archive) FileData(e *Entry) ([]byte, error) {
	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	if e.IsNew || e.IsUpdated {
		data, err := os.ReadFile(e.StagingPath)
		if err != nil {
			return nil, errors.Annotate(err).Reason("reading staged file %(path)q").D("path", e.StagingPath).Err()
		}
		return data, nil
	}
	if a.src == nil {
		return nil, errors.Annotate(errs.NotOpen).Reason("archive has no open source file").Err()
	}
	if _, err := a.src.Seek(e.OffsetInArchive, io.SeekStart); err != nil {
		return nil, errors.Annotate(err).Reason("seeking to entry %(name)q").D("name", e.Name).Err()
	}
	buf := make([]byte, e.SizeInArchive)
	if _, err := io.ReadFull(a.src, buf); err != nil {
		return nil, errors.Annotate(errs.Truncated).Reason("reading entry %(name)q: %(err)v").D("name", e.Name).D("err", err).Err()
	}
	return buf, nil
}

// Extract writes an entry's bytes atomically to dir/name.
func (a *Archive) Extract(dir string, e *Entry) error {
	data, err := a.FileData(e)
	if err != nil {
		return err
	}
	return writeFileAtomic(dirJoin(dir, e.Name), data, 0666)
}

// Delete removes an entry from the in-memory entry list; the deletion is
// only made durable by a subsequent Save.
func (a *Archive) Delete(e *Entry) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	_, idx := a.find(e.Name)
	if idx < 0 {
		return errors.Annotate(errs.NotFound).Reason("entry %(name)q not found").D("name", e.Name).Err()
	}
	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	a.fireFileListModified()
	return nil
}

// AddOrUpdate stages path's contents under its upper-cased basename: a
// matching non-new entry becomes is_updated; a matching is_new entry is
// replaced outright; anything else is appended as a fresh is_new entry.
func (a *Archive) AddOrUpdate(path string) (*Entry, error) {
	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	name, err := normalizeName(baseName(path))
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Annotate(err).Reason("statting %(path)q").D("path", path).Err()
	}
	stagedSize := uint32(st.Size())

	existing, idx := a.find(name)
	switch {
	case existing == nil:
		e := &Entry{Name: name, IsNew: true, StagingPath: path, StagedSize: stagedSize}
		a.entries = append(a.entries, e)
		sort.Slice(a.entries, func(i, j int) bool { return a.entries[i].Name < a.entries[j].Name })
		a.fireFileListModified()
		return e, nil
	case existing.IsNew:
		e := &Entry{Name: name, IsNew: true, StagingPath: path, StagedSize: stagedSize}
		a.entries[idx] = e
		a.fireFileModified(e)
		return e, nil
	default:
		existing.IsUpdated = true
		existing.StagingPath = path
		existing.StagedSize = stagedSize
		a.fireFileModified(existing)
		return existing, nil
	}
}

// Revert undoes an entry's staged changes: an is_new entry is removed
// outright; an is_updated entry has its staging fields cleared.
func (a *Archive) Revert(e *Entry) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	_, idx := a.find(e.Name)
	if idx < 0 {
		return errors.Annotate(errs.NotFound).Reason("entry %(name)q not found").D("name", e.Name).Err()
	}
	if a.entries[idx].IsNew {
		a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
		a.fireFileListModified()
		return nil
	}
	a.entries[idx].IsUpdated = false
	a.entries[idx].StagingPath = ""
	a.entries[idx].StagedSize = 0
	a.fireFileModified(a.entries[idx])
	return nil
}
