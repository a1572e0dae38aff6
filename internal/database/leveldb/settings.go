// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package leveldb

// Settings is the database settings.
type Settings struct {
	// Path is the database directory path to use.
	// It defaults to the current directory if left unset.
	Path string
	// InMemory is whether to use an in-memory storage.
	// It defaults to false.
	InMemory *bool
	// CacheSize is the block cache size in MiB.
	// It defaults to 16.
	CacheSize int
}

// SetDefaults sets the default values on the settings.
func (s *Settings) SetDefaults() {
	if s.Path == "" {
		s.Path = "."
	}

	if s.InMemory == nil {
		s.InMemory = new(bool)
	}

	if s.CacheSize == 0 {
		const defaultCacheSize = 16
		s.CacheSize = defaultCacheSize
	}
}
