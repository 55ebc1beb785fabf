// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package asset decodes the pixel/animation formats that ride inside
// ArchiveV1 entries — IMG, DFA, and (partially) CFA — by parsing their
// fixed headers and driving bsadata/codec. None of these formats are
// rendered here; this package stops at the decoded pixel/palette buffer,
// per spec §1's "asset decoders are consumers, not a display surface"
// scoping.
package asset
