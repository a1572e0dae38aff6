// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pruner

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/lib/common"
)

// TableName is the database table prefix of the journal.
const TableName = "j"

var (
	headKey = []byte("head")
	baseKey = []byte("base")
)

// journalRecord is the persisted journal entry of a generation.
// Inserted holds the reference count increments of the generation,
// applied to the node store when the generation is committed.
// Removed holds its deferred reference count decrements, which are
// applied once the previous generation is pruned.
type journalRecord struct {
	Root     common.Hash
	Inserted []change
	Removed  []change
}

// change is a reference count change, in absolute value.
type change struct {
	Hash  common.Hash
	Count uint64
}

// entry is the in-memory journal entry of a generation.
type entry struct {
	root     common.Hash
	inserted []nodestore.Change
	removed  []nodestore.Change
}

func makeRecordKey(generation uint64) (key []byte) {
	key = make([]byte, 8)
	binary.BigEndian.PutUint64(key, generation)
	return key
}

func encodeChanges(changes []nodestore.Change) (encoded []change) {
	encoded = make([]change, len(changes))
	for i, c := range changes {
		count := c.Delta
		if count < 0 {
			count = -count
		}
		encoded[i] = change{Hash: c.Hash, Count: uint64(count)}
	}
	return encoded
}

func decodeChanges(encoded []change, sign int64) (changes []nodestore.Change) {
	changes = make([]nodestore.Change, len(encoded))
	for i, c := range encoded {
		changes[i] = nodestore.Change{
			Hash:  c.Hash,
			Delta: sign * int64(c.Count),
		}
	}
	return changes
}

func storeRecord(writer database.Writer, generation uint64, e entry) (err error) {
	record := journalRecord{
		Root:     e.root,
		Inserted: encodeChanges(e.inserted),
		Removed:  encodeChanges(e.removed),
	}

	encodedRecord, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("rlp encoding journal record: %w", err)
	}

	err = writer.Set(makeRecordKey(generation), encodedRecord)
	if err != nil {
		return fmt.Errorf("writing journal record for generation %d: %w", generation, err)
	}
	return nil
}

func loadRecord(reader database.Reader, generation uint64) (e entry, err error) {
	encodedRecord, err := reader.Get(makeRecordKey(generation))
	if err != nil {
		return e, fmt.Errorf("getting journal record for generation %d: %w", generation, err)
	}

	var record journalRecord
	err = rlp.DecodeBytes(encodedRecord, &record)
	if err != nil {
		return e, fmt.Errorf("rlp decoding journal record for generation %d: %w", generation, err)
	}

	return entry{
		root:     record.Root,
		inserted: decodeChanges(record.Inserted, 1),
		removed:  decodeChanges(record.Removed, -1),
	}, nil
}

func storeGeneration(writer database.Writer, key []byte, generation uint64) (err error) {
	err = writer.Set(key, makeRecordKey(generation))
	if err != nil {
		return fmt.Errorf("writing generation %d at key %q: %w", generation, key, err)
	}
	return nil
}

// loadGeneration returns the generation stored at the given key,
// and false if the key is not found.
func loadGeneration(reader database.Reader, key []byte) (generation uint64, found bool, err error) {
	value, err := reader.Get(key)
	if errors.Is(err, database.ErrKeyNotFound) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, fmt.Errorf("getting generation at key %q: %w", key, err)
	}

	const expectedLength = 8
	if len(value) != expectedLength {
		return 0, false, fmt.Errorf("generation at key %q has %d bytes instead of %d",
			key, len(value), expectedLength)
	}
	return binary.BigEndian.Uint64(value), true, nil
}
