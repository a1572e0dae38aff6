// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package nodestore

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/lib/common"
)

// Change is a reference count change of a node.
type Change struct {
	Hash common.Hash
	// Encoding is the node encoding, which must be set if the
	// node might not be stored yet.
	Encoding []byte
	Delta    int64
}

// Stager stages additional writes in the write batch of an Apply call,
// so they are written atomically with the node changes.
type Stager func(batch database.WriteBatch) error

// Apply applies the reference count changes and the writes of the
// stagers given in a single atomic database write batch.
// Nodes whose reference count drops to zero or less are deleted.
// Concurrent readers observe either all or none of the changes.
func (s *Store) Apply(changes []Change, stagers ...Stager) (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	batch := s.db.NewWriteBatch()
	nodesBatch := s.table.WrapWriteBatch(batch)

	type cacheUpdate struct {
		hash     common.Hash
		encoding []byte // nil to evict
	}
	cacheUpdates := make([]cacheUpdate, 0, len(changes))
	var inserted, deleted uint

	for _, change := range mergeChanges(changes) {
		if change.Delta == 0 {
			continue
		}

		refCount, encoding, err := s.get(change.Hash)
		exists := true
		if errors.Is(err, ErrNodeNotFound) {
			exists = false
		} else if err != nil {
			batch.Cancel()
			return err
		}

		if !exists {
			if change.Delta < 0 {
				logger.Warnf("reference count of absent node %s decremented by %d",
					change.Hash, -change.Delta)
				continue
			}
			if change.Encoding == nil {
				batch.Cancel()
				return fmt.Errorf("%w: for node %s", ErrEncodingMissing, change.Hash)
			}
			encoding = change.Encoding
			inserted++
		}

		refCount += change.Delta
		if refCount <= 0 {
			err = nodesBatch.Delete(change.Hash[:])
			if err != nil {
				batch.Cancel()
				return fmt.Errorf("deleting node %s: %w", change.Hash, err)
			}
			cacheUpdates = append(cacheUpdates, cacheUpdate{hash: change.Hash})
			if exists {
				deleted++
			}
			continue
		}

		err = nodesBatch.Set(change.Hash[:], encodeValue(refCount, encoding))
		if err != nil {
			batch.Cancel()
			return fmt.Errorf("writing node %s: %w", change.Hash, err)
		}
		if !exists {
			cacheUpdates = append(cacheUpdates, cacheUpdate{
				hash:     change.Hash,
				encoding: encoding,
			})
		}
	}

	for _, stage := range stagers {
		err = stage(batch)
		if err != nil {
			batch.Cancel()
			return fmt.Errorf("staging writes: %w", err)
		}
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing write batch: %w", err)
	}

	for _, update := range cacheUpdates {
		if update.encoding == nil {
			s.cache.Remove(update.hash)
			continue
		}
		s.cache.Add(update.hash, update.encoding)
	}

	s.metrics.NodesInserted(inserted)
	s.metrics.NodesDeleted(deleted)
	logger.Debugf("applied %d node changes: %d nodes inserted and %d nodes deleted",
		len(changes), inserted, deleted)

	return nil
}

// mergeChanges merges changes of the same node hash together,
// keeping the order of first appearance.
func mergeChanges(changes []Change) (merged []Change) {
	hashToIndex := make(map[common.Hash]int, len(changes))
	merged = make([]Change, 0, len(changes))
	for _, change := range changes {
		index, ok := hashToIndex[change.Hash]
		if !ok {
			hashToIndex[change.Hash] = len(merged)
			merged = append(merged, change)
			continue
		}

		merged[index].Delta += change.Delta
		if merged[index].Encoding == nil {
			merged[index].Encoding = change.Encoding
		}
	}
	return merged
}
