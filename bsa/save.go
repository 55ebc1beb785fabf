// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/iotools"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

const defaultTempSuffix = ".tmp"

// Save rewrites path atomically with the archive's current contents
// (spec §4.4.3): every entry's bytes are fetched via FileData and written
// in order, followed by the file table. The new file is built entirely
// under a sibling path (path plus ".tmp", or the WithTempSuffix suffix)
// and only moved onto path once fully written and size-verified. A
// failure while writing or verifying removes the temporary file and
// leaves path untouched. Once verified, an existing file at path is
// removed before the rename; if that removal or the rename fails, the
// new contents stay at the temporary path, which the error names.
//
// On success, the Archive is closed and re-opened against the saved
// file, so in-memory offsets and original_count reflect what's now on
// disk.
func (a *Archive) Save(path string, opts ...SaveOption) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	data := saveOptionData{tempSuffix: defaultTempSuffix}
	for _, o := range opts {
		o(&data)
	}
	tmpPath := path + data.tempSuffix

	if err := a.writeTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return errors.Annotate(errs.IoRename).
				Reason("could not remove existing %(path)q, new contents left at %(tmp)q: %(err)v").
				D("path", path).D("tmp", tmpPath).D("err", err).Err()
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Annotate(errs.IoRename).
			Reason("could not rename %(tmp)q to %(path)q: %(err)v").
			D("tmp", tmpPath).D("path", path).D("err", err).Err()
	}

	obs := a.obs
	if err := a.Close(); err != nil {
		return err
	}
	return a.Open(path, WithObserver(obs))
}

func (a *Archive) writeTo(tmpPath string) error {
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Annotate(errs.IoWrite).Reason("opening %(path)q: %(err)v").D("path", tmpPath).D("err", err).Err()
	}

	count := uint16(len(a.entries))
	var countBuf [2]byte
	binary.LittleEndian.PutUint16(countBuf[:], count)
	if _, err := f.Write(countBuf[:]); err != nil {
		f.Close()
		return errors.Annotate(errs.IoWrite).Reason("writing entry count to %(path)q: %(err)v").D("path", tmpPath).D("err", err).Err()
	}

	payload := &iotools.CountingWriter{Writer: f}
	for _, e := range a.entries {
		data, err := a.FileData(e)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := payload.Write(data); err != nil {
			f.Close()
			return errors.Annotate(errs.IoWrite).Reason("writing entry %(name)q to %(path)q: %(err)v").D("name", e.Name).D("path", tmpPath).D("err", err).Err()
		}
	}

	for _, e := range a.entries {
		field := encodeNameField(e.Name)
		if _, err := f.Write(field[:]); err != nil {
			f.Close()
			return errors.Annotate(errs.IoWrite).Reason("writing table name for %(name)q to %(path)q: %(err)v").D("name", e.Name).D("path", tmpPath).D("err", err).Err()
		}
		var sizeBuf [4]byte
		binary.LittleEndian.PutUint32(sizeBuf[:], uint32(e.effectiveSize()))
		if _, err := f.Write(sizeBuf[:]); err != nil {
			f.Close()
			return errors.Annotate(errs.IoWrite).Reason("writing table size for %(name)q to %(path)q: %(err)v").D("name", e.Name).D("path", tmpPath).D("err", err).Err()
		}
	}

	if err := f.Close(); err != nil {
		return errors.Annotate(errs.IoWrite).Reason("closing %(path)q: %(err)v").D("path", tmpPath).D("err", err).Err()
	}

	st, err := os.Stat(tmpPath)
	if err != nil {
		return errors.Annotate(errs.IoWrite).Reason("statting %(path)q: %(err)v").D("path", tmpPath).D("err", err).Err()
	}
	want := int64(2) + payload.Count + int64(count)*tableEntrySize
	if st.Size() != want {
		return errors.Annotate(errs.Corrupt).
			Reason("wrote %(got)d bytes to %(path)q, expected %(want)d").
			D("got", st.Size()).D("path", tmpPath).D("want", want).Err()
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + defaultTempSuffix
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Annotate(errs.IoWrite).Reason("writing %(path)q: %(err)v").D("path", tmp).D("err", err).Err()
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Annotate(errs.IoRename).Reason("renaming %(tmp)q to %(path)q: %(err)v").D("tmp", tmp).D("path", path).D("err", err).Err()
	}
	return nil
}

func baseName(path string) string {
	return filepath.Base(path)
}

func dirJoin(dir, name string) string {
	return filepath.Join(dir, name)
}
