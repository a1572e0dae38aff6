// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/internal/trie/tracking"
	"github.com/kushti/mpt/lib/common"
	"github.com/kushti/mpt/pkg/trie/overlay"
	"github.com/stretchr/testify/require"
)

func newTestTrie(t *testing.T) (trie *Trie, db *overlay.Overlay) {
	t.Helper()
	db = overlay.New(nil)
	return NewEmpty(db), db
}

func generateRandomKeys(t *testing.T, generator *rand.Rand, count, length int) (keys [][]byte) {
	t.Helper()

	unique := make(map[string]struct{}, count)
	keys = make([][]byte, 0, count)
	for len(keys) < count {
		key := make([]byte, length)
		_, err := generator.Read(key)
		require.NoError(t, err)
		if _, ok := unique[string(key)]; ok {
			continue
		}
		unique[string(key)] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// pendingDeltas returns the pending deltas of an overlay
// without backing store, as deltas ordered by node hash.
func pendingDeltas(db *overlay.Overlay) (deltas []tracking.Delta) {
	changes := db.Pending()
	deltas = make([]tracking.Delta, len(changes))
	for i, change := range changes {
		deltas[i] = tracking.Delta{Hash: change.Hash, Delta: change.Delta}
	}
	return deltas
}

// mapReader is a node reader backed by a map.
type mapReader map[common.Hash][]byte

func (m mapReader) Node(hash common.Hash) (encoding []byte, err error) {
	encoding, ok := m[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", nodestore.ErrNodeNotFound, hash)
	}
	return encoding, nil
}

// copyNodes copies all the nodes reachable from the root
// into a map reader.
func copyNodes(t *testing.T, reader NodeReader, root common.Hash) mapReader {
	t.Helper()

	deltas, err := DiffDeltas(reader, common.EmptyRootHash, root)
	require.NoError(t, err)

	nodes := make(mapReader, len(deltas))
	for _, delta := range deltas {
		encoding, err := reader.Node(delta.Hash)
		require.NoError(t, err)
		nodes[delta.Hash] = encoding
	}
	return nodes
}
