// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package tracking records net reference count changes of node hashes.
package tracking

import (
	"bytes"
	"sort"

	"github.com/kushti/mpt/lib/common"
	"golang.org/x/exp/maps"
)

// Delta is a net reference count change for a node hash.
type Delta struct {
	Hash  common.Hash
	Delta int64
}

// Deltas tracks the net reference count changes of node hashes.
// An insertion and a deletion of the same node hash cancel each other.
type Deltas struct {
	counts map[common.Hash]int64
}

// New returns a new Deltas struct.
func New() *Deltas {
	return &Deltas{
		counts: make(map[common.Hash]int64),
	}
}

// RecordDeleted records a node hash as deleted once.
func (d *Deltas) RecordDeleted(nodeHash common.Hash) {
	d.Add(nodeHash, -1)
}

// RecordInserted records a node hash as inserted once.
func (d *Deltas) RecordInserted(nodeHash common.Hash) {
	d.Add(nodeHash, 1)
}

// Add adds the delta to the net count of the node hash.
func (d *Deltas) Add(nodeHash common.Hash, delta int64) {
	count := d.counts[nodeHash] + delta
	if count == 0 {
		delete(d.counts, nodeHash)
		return
	}
	d.counts[nodeHash] = count
}

// Count returns the net count change recorded for the node hash.
func (d *Deltas) Count(nodeHash common.Hash) int64 {
	return d.counts[nodeHash]
}

// Len returns the number of node hashes with a non zero net change.
func (d *Deltas) Len() int {
	return len(d.counts)
}

// Get returns the sets (maps) of all the recorded inserted
// and deleted node hashes, that is node hashes with respectively
// a positive and a negative net count change.
func (d *Deltas) Get() (insertedNodeHashes, deletedNodeHashes map[common.Hash]struct{}) {
	insertedNodeHashes = make(map[common.Hash]struct{})
	deletedNodeHashes = make(map[common.Hash]struct{})
	for nodeHash, count := range d.counts {
		if count > 0 {
			insertedNodeHashes[nodeHash] = struct{}{}
		} else {
			deletedNodeHashes[nodeHash] = struct{}{}
		}
	}
	return insertedNodeHashes, deletedNodeHashes
}

// Sorted returns the non zero deltas ordered by node hash.
func (d *Deltas) Sorted() (deltas []Delta) {
	nodeHashes := maps.Keys(d.counts)
	sort.Slice(nodeHashes, func(i, j int) bool {
		return bytes.Compare(nodeHashes[i][:], nodeHashes[j][:]) < 0
	})

	deltas = make([]Delta, len(nodeHashes))
	for i, nodeHash := range nodeHashes {
		deltas[i] = Delta{Hash: nodeHash, Delta: d.counts[nodeHash]}
	}
	return deltas
}

// MergeWith merges the deltas given as argument in the receiving
// deltas struct.
func (d *Deltas) MergeWith(other *Deltas) {
	for nodeHash, count := range other.counts {
		d.Add(nodeHash, count)
	}
}

// DeepCopy returns a deep copy of the deltas.
func (d *Deltas) DeepCopy() (deepCopy *Deltas) {
	if d == nil {
		return nil
	}

	deepCopy = &Deltas{}
	if d.counts != nil {
		deepCopy.counts = maps.Clone(d.counts)
	}
	return deepCopy
}
