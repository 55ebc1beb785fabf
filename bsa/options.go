// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bsa

// optionData holds everything an Option can set before Open/CreateNew
// commits an Archive to the opened state.
type optionData struct {
	observer Observer
}

// Option configures Open or CreateNew, following the teacher's
// functional-options idiom (sar.OpenOption/sar.CreateOption).
type Option func(*optionData)

// WithObserver registers the archive's notification callbacks.
func WithObserver(obs Observer) Option {
	return func(o *optionData) {
		o.observer = obs
	}
}

// saveOptionData holds Save's configurable knobs.
type saveOptionData struct {
	tempSuffix string
}

// SaveOption configures Save.
type SaveOption func(*saveOptionData)

// WithTempSuffix overrides the ".tmp" suffix Save uses for its
// write-then-rename staging file.
func WithTempSuffix(suffix string) SaveOption {
	return func(o *saveOptionData) {
		o.tempSuffix = suffix
	}
}
