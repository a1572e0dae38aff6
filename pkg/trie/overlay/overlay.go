// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package overlay implements an in-memory, reference counted staging
// area of trie node writes, layered over a persistent node store.
package overlay

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/internal/trie/tracking"
	"github.com/kushti/mpt/lib/common"
	"golang.org/x/exp/maps"
)

// Reader reads committed node encodings by hash.
type Reader interface {
	Node(hash common.Hash) (encoding []byte, err error)
}

// Applier applies node reference count changes to the backing store.
type Applier interface {
	Apply(changes []nodestore.Change, stagers ...nodestore.Stager) error
}

type entry struct {
	encoding []byte
	rc       int64
}

// Overlay is an in-memory staging area of node writes. Each entry holds
// the node encoding and its signed pending reference count delta.
// It is safe for concurrent use.
type Overlay struct {
	backing Reader
	data    map[common.Hash]entry
	mutex   sync.RWMutex
}

// New creates a new overlay on top of the backing reader given.
// The backing reader can be nil for a standalone in-memory overlay.
func New(backing Reader) *Overlay {
	return &Overlay{
		backing: backing,
		data:    make(map[common.Hash]entry),
	}
}

// Node returns the encoding of the node with the given hash, looking
// first at the pending entries, then at the backing reader.
// The encoding of a pending entry is returned even if its pending
// reference count is negative, since removals are lazy.
func (o *Overlay) Node(hash common.Hash) (encoding []byte, err error) {
	if hash == common.EmptyRootHash {
		return []byte{0x80}, nil
	}

	o.mutex.RLock()
	e, ok := o.data[hash]
	o.mutex.RUnlock()
	if ok && e.encoding != nil {
		return e.encoding, nil
	}

	if o.backing == nil {
		return nil, fmt.Errorf("%w: %s", nodestore.ErrNodeNotFound, hash)
	}
	return o.backing.Node(hash)
}

// Insert hashes the encoding, increments its pending reference count
// and stages the encoding if not already staged. It returns the hash.
func (o *Overlay) Insert(encoding []byte) (hash common.Hash) {
	hash = common.Keccak256(encoding)

	o.mutex.Lock()
	defer o.mutex.Unlock()

	e := o.data[hash]
	if e.encoding == nil {
		e.encoding = encoding
	}
	e.rc++
	o.data[hash] = e
	return hash
}

// Remove decrements the pending reference count of the node hash.
// The staged encoding, if any, is kept.
func (o *Overlay) Remove(hash common.Hash) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	e := o.data[hash]
	e.rc--
	o.data[hash] = e
}

// Len returns the number of pending entries, including
// entries with a zero net reference count delta.
func (o *Overlay) Len() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.data)
}

// Pending returns the node changes with a non zero reference count
// delta, ordered by node hash.
func (o *Overlay) Pending() (changes []nodestore.Change) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.pending()
}

func (o *Overlay) pending() (changes []nodestore.Change) {
	hashes := maps.Keys(o.data)
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})

	changes = make([]nodestore.Change, 0, len(hashes))
	for _, hash := range hashes {
		e := o.data[hash]
		if e.rc == 0 {
			continue
		}
		changes = append(changes, nodestore.Change{
			Hash:     hash,
			Encoding: e.encoding,
			Delta:    e.rc,
		})
	}
	return changes
}

// Commit hands the net pending changes to the applier in a single call,
// then clears the overlay and returns the net deltas.
// The overlay is locked during the whole commit, so concurrent readers
// see either the overlay before the commit or the backing store after it.
// If the applier fails, the pending entries are left untouched.
func (o *Overlay) Commit(applier Applier, stagers ...nodestore.Stager) (
	deltas []tracking.Delta, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	changes := o.pending()
	err = applier.Apply(changes, stagers...)
	if err != nil {
		return nil, fmt.Errorf("applying changes: %w", err)
	}

	o.data = make(map[common.Hash]entry)

	deltas = make([]tracking.Delta, len(changes))
	for i, change := range changes {
		deltas[i] = tracking.Delta{Hash: change.Hash, Delta: change.Delta}
	}
	return deltas, nil
}

// Rollback discards all pending entries.
func (o *Overlay) Rollback() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.data = make(map[common.Hash]entry)
}

// Consolidate merges all the pending entries of other into the
// overlay, and clears other.
func (o *Overlay) Consolidate(other *Overlay) {
	other.mutex.Lock()
	otherData := other.data
	other.data = make(map[common.Hash]entry)
	other.mutex.Unlock()

	o.mutex.Lock()
	defer o.mutex.Unlock()

	for hash, otherEntry := range otherData {
		e := o.data[hash]
		if e.encoding == nil {
			e.encoding = otherEntry.encoding
		}
		e.rc += otherEntry.rc
		o.data[hash] = e
	}
}
