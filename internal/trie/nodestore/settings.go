// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package nodestore

import (
	"github.com/kushti/mpt/internal/trie/metrics"
)

// Settings are the node store settings.
type Settings struct {
	// CacheSize is the maximum number of node encodings
	// kept in the clean node cache. It defaults to 65536.
	CacheSize *int
	// Metrics defaults to a no-op implementation.
	Metrics Metrics
}

// SetDefaults sets the default values on the settings.
func (s *Settings) SetDefaults() {
	if s.CacheSize == nil || *s.CacheSize <= 0 {
		const defaultCacheSize = 65536
		cacheSize := defaultCacheSize
		s.CacheSize = &cacheSize
	}

	if s.Metrics == nil {
		s.Metrics = metrics.NewNoop()
	}
}
