// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pruner

import (
	"github.com/kushti/mpt/internal/trie/nodestore"
)

// NodeApplier applies node reference count changes and
// additional staged writes in a single atomic write batch.
type NodeApplier interface {
	Apply(changes []nodestore.Change, stagers ...nodestore.Stager) error
}

// Metrics is the metrics interface used by the pruner.
type Metrics interface {
	Committed(generation uint64)
	Pruned(watermark uint64, nodesChanged uint)
	PruneBlocked()
}
