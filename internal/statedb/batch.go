// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package statedb

import (
	"fmt"

	"github.com/kushti/mpt/internal/pruner"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/internal/trie/tracking"
	"github.com/kushti/mpt/lib/common"
	"github.com/kushti/mpt/pkg/trie"
	"github.com/kushti/mpt/pkg/trie/overlay"
)

// Batch is a write batch of trie mutations, staged in an overlay
// until committed as a new generation. It is not safe for concurrent use.
type Batch struct {
	stateDB          *StateDB
	parentGeneration uint64
	parentRoot       common.Hash
	overlay          *overlay.Overlay
	trie             *trie.Trie
	closed           bool
}

// Get returns the value for the key in the batch trie,
// including uncommitted mutations.
func (b *Batch) Get(key []byte) (value []byte, err error) {
	if b.closed {
		return nil, ErrBatchClosed
	}
	return b.trie.Get(key)
}

// Put inserts or updates the value for the key.
// An empty value deletes the key.
func (b *Batch) Put(key, value []byte) (err error) {
	if b.closed {
		return ErrBatchClosed
	}
	return b.trie.Put(key, value)
}

// Delete removes the key.
func (b *Batch) Delete(key []byte) (err error) {
	if b.closed {
		return ErrBatchClosed
	}
	return b.trie.Delete(key)
}

// Root returns the root hash of the batch trie.
func (b *Batch) Root() common.Hash {
	return b.trie.Hash()
}

// Pending returns the number of staged node entries.
func (b *Batch) Pending() int {
	return b.overlay.Len()
}

// Commit commits the batch as a new generation. The node changes and
// the journal entry are written in a single atomic database batch,
// and the new generation becomes the head generation.
// On error, the batch stays open and can be retried or rolled back.
func (b *Batch) Commit() (generation uint64, root common.Hash, err error) {
	if b.closed {
		return 0, root, ErrBatchClosed
	}

	root = b.trie.Hash()
	if b.stateDB.verifyCommits {
		err = b.verify(root)
		if err != nil {
			return 0, root, err
		}
	}

	applier := &journalApplier{
		pruner: b.stateDB.pruner,
		root:   root,
	}
	deltas, err := b.overlay.Commit(applier)
	if err != nil {
		return 0, root, fmt.Errorf("committing overlay: %w", err)
	}

	b.close()
	logger.Debugf("batch on generation %d committed as generation %d with %d node change(s)",
		b.parentGeneration, applier.generation, len(deltas))
	return applier.generation, root, nil
}

// verify checks the staged node changes are the net changes of node
// occurrences between the parent root and the root given.
func (b *Batch) verify(root common.Hash) (err error) {
	diffDeltas, err := trie.DiffDeltas(b.overlay, b.parentRoot, root)
	if err != nil {
		return fmt.Errorf("diffing trie roots: %w", err)
	}

	mismatches := tracking.New()
	for _, change := range b.overlay.Pending() {
		mismatches.Add(change.Hash, change.Delta)
	}
	for _, delta := range diffDeltas {
		mismatches.Add(delta.Hash, -delta.Delta)
	}

	if mismatches.Len() > 0 {
		first := mismatches.Sorted()[0]
		return fmt.Errorf("%w: %d node(s) differ, node %s is off by %d",
			ErrCommitMismatch, mismatches.Len(), first.Hash, first.Delta)
	}
	return nil
}

// Rollback discards all the mutations of the batch.
// It is a no-op on a closed batch.
func (b *Batch) Rollback() {
	if b.closed {
		return
	}
	b.overlay.Rollback()
	b.close()
}

func (b *Batch) close() {
	b.closed = true
	b.stateDB.endBatch()
}

// journalApplier applies overlay changes through the pruner,
// recording the generation committed.
type journalApplier struct {
	pruner     *pruner.Pruner
	root       common.Hash
	generation uint64
}

func (j *journalApplier) Apply(changes []nodestore.Change, stagers ...nodestore.Stager) (err error) {
	j.generation, err = j.pruner.Commit(j.root, changes, stagers...)
	return err
}
