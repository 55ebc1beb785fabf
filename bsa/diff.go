// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

import (
	"bytes"
	"sort"

	"github.com/luci/luci-go/common/errors"
)

// DiffResult is the outcome of comparing two archives' entry sets and
// contents (supplemented feature, SPEC_FULL.md §7) — the kind of
// vanilla-vs-patched comparison a repack/mod tool needs before deciding
// what to restage.
type DiffResult struct {
	Added   []string // present in b, not in a
	Removed []string // present in a, not in b
	Changed []string // present in both, with different bytes
}

// Diff compares two open archives entry-by-entry. Both must be open.
func Diff(a, b *Archive) (DiffResult, error) {
	if err := a.requireOpen(); err != nil {
		return DiffResult{}, err
	}
	if err := b.requireOpen(); err != nil {
		return DiffResult{}, err
	}

	bByName := make(map[string]*Entry, len(b.entries))
	for _, e := range b.entries {
		bByName[e.Name] = e
	}

	var result DiffResult
	seen := make(map[string]bool, len(a.entries))
	for _, ea := range a.entries {
		seen[ea.Name] = true
		eb, ok := bByName[ea.Name]
		if !ok {
			result.Removed = append(result.Removed, ea.Name)
			continue
		}
		dataA, err := a.FileData(ea)
		if err != nil {
			return DiffResult{}, errors.Annotate(err).Reason("reading %(name)q from a").D("name", ea.Name).Err()
		}
		dataB, err := b.FileData(eb)
		if err != nil {
			return DiffResult{}, errors.Annotate(err).Reason("reading %(name)q from b").D("name", eb.Name).Err()
		}
		if !bytes.Equal(dataA, dataB) {
			result.Changed = append(result.Changed, ea.Name)
		}
	}
	for name := range bByName {
		if !seen[name] {
			result.Added = append(result.Added, name)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Changed)
	return result, nil
}
