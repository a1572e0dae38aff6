// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package statedb

import (
	"github.com/kushti/mpt/internal/pruner"
	"github.com/kushti/mpt/internal/trie/nodestore"
)

// Settings are the state database settings.
type Settings struct {
	NodeStore nodestore.Settings
	Pruner    pruner.Settings
	// VerifyCommits, if set, checks before each commit that the
	// staged reference count changes match the diff between the
	// parent root and the new root.
	VerifyCommits bool
}
