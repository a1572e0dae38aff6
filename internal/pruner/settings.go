// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pruner

import (
	"github.com/kushti/mpt/internal/trie/metrics"
)

// Settings are the pruner settings.
type Settings struct {
	// RetainGenerations is the number of most recent generations
	// to keep when pruning automatically after each commit.
	// It defaults to 0, which disables automatic pruning.
	RetainGenerations *uint64
	// Metrics defaults to a no-op implementation.
	Metrics Metrics
}

// SetDefaults sets the default values for unset fields.
func (s *Settings) SetDefaults() {
	if s.RetainGenerations == nil {
		s.RetainGenerations = new(uint64)
	}

	if s.Metrics == nil {
		s.Metrics = metrics.NewNoop()
	}
}
