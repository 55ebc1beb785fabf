// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errs defines the ArchiveV1 error taxonomy: a small set of
// sentinel Kind values that call sites wrap with
// github.com/luci/luci-go/common/errors so that both errors.Is-style
// matching and human-readable annotation chains work on the same error.
package errs

// Kind identifies the category of failure, independent of the annotated
// message text wrapped around it.
type Kind string

func (k Kind) Error() string { return string(k) }

// The taxonomy named in spec.md §7. These are matched with errors.Is,
// e.g. `errors.Is(err, errs.Corrupt)`, after being wrapped by
// errors.Annotate(errs.Corrupt).Reason("...").Err() at the failing call
// site.
const (
	// AlreadyOpen: open/create on an instance that is already open.
	AlreadyOpen Kind = "archive already open"
	// NotOpen: operation requiring an open archive.
	NotOpen Kind = "archive not open"
	// NotFound: entry name not in the archive, or file path missing.
	NotFound Kind = "not found"
	// Truncated: short read relative to declared length.
	Truncated Kind = "truncated"
	// Corrupt: total-size mismatch, frame pixel-count mismatch, palette
	// under 768 bytes, etc.
	Corrupt Kind = "corrupt"
	// Unsupported: IMG compression flag not in {0, 2, 4, 8}.
	Unsupported Kind = "unsupported"
	// IoWrite: save-time write failure. The .tmp path is included in the
	// wrapping Reason for recovery.
	IoWrite Kind = "write failed"
	// IoRename: save-time rename failure. The .tmp path is included in
	// the wrapping Reason for recovery.
	IoRename Kind = "rename failed"
	// NameTooLong: filename beyond 13 usable bytes on add; also returned
	// for an empty name or one with bytes outside printable ASCII.
	NameTooLong Kind = "name too long"
)
