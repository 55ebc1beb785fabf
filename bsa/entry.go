// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

import (
	"regexp"

	"github.com/luci/luci-go/common/errors"

	"github.com/Dysperia/ArenaToolBox-Library/errs"
)

// MaxNameLength is the widest name an entry can carry: 14 on-disk bytes
// minus the trailing NUL terminator.
const MaxNameLength = 13

// invalidOffset marks an Entry that has never been assigned a real
// position in an archive's source file.
const invalidOffset = int64(0)

var badNameChars = regexp.MustCompile(`[^\x20-\x7E]`)

// Entry describes one addressable item in an Archive (spec §3, C5): its
// name, its position/size within the archive's source file if any, and
// the staging state that says where its bytes come from when they
// haven't been committed to a source file yet.
type Entry struct {
	Name            string
	SizeInArchive   uint32
	OffsetInArchive int64

	IsNew     bool
	IsUpdated bool

	StagingPath string
	StagedSize  uint32
}

// normalizeName upper-cases name for in-archive storage and checks it
// against the on-disk name field's width and character constraints.
func normalizeName(name string) (string, error) {
	if name == "" {
		return "", errors.Annotate(errs.NameTooLong).Reason("empty name").Err()
	}
	upper := toUpperASCII(name)
	if len(upper) > MaxNameLength {
		return "", errors.Annotate(errs.NameTooLong).
			Reason("name %(name)q is %(n)d bytes, max is %(max)d").
			D("name", name).D("n", len(upper)).D("max", MaxNameLength).Err()
	}
	if badNameChars.MatchString(upper) {
		return "", errors.Annotate(errs.NameTooLong).
			Reason("name %(name)q contains a non-ASCII or control byte").
			D("name", name).Err()
	}
	return upper, nil
}

func toUpperASCII(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// effectiveSize is the byte count Archive.Size sums over every entry:
// staged_size for new/updated entries, size_in_archive otherwise.
func (e *Entry) effectiveSize() uint64 {
	if e.IsNew || e.IsUpdated {
		return uint64(e.StagedSize)
	}
	return uint64(e.SizeInArchive)
}

// validate enforces the invariants spec §3 states for a single Entry:
// is_new and is_updated are mutually exclusive, and staging fields are
// only meaningful together with one of those two flags.
func (e *Entry) validate() error {
	if e.IsNew && e.IsUpdated {
		return errors.Reason("entry %(name)q is both new and updated").D("name", e.Name).Err()
	}
	if (e.IsNew || e.IsUpdated) && e.StagingPath == "" {
		return errors.Reason("entry %(name)q is staged but has no staging path").D("name", e.Name).Err()
	}
	return nil
}
