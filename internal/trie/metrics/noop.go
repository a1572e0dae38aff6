// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package metrics contains the no-op metrics implementation used
// when metrics are disabled.
package metrics

// Noop is a no-op metrics implementation.
type Noop struct{}

// NewNoop returns a no-op metrics implementation.
func NewNoop() *Noop { return &Noop{} }

// NodesInserted does nothing.
func (*Noop) NodesInserted(uint) {}

// NodesDeleted does nothing.
func (*Noop) NodesDeleted(uint) {}

// CacheHit does nothing.
func (*Noop) CacheHit() {}

// CacheMiss does nothing.
func (*Noop) CacheMiss() {}

// Committed does nothing.
func (*Noop) Committed(uint64) {}

// Pruned does nothing.
func (*Noop) Pruned(uint64, uint) {}

// PruneBlocked does nothing.
func (*Noop) PruneBlocked() {}
