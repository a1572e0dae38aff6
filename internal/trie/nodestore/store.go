// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package nodestore implements the persistent, reference counted
// store of trie node encodings addressed by their hash.
package nodestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/internal/log"
	"github.com/kushti/mpt/lib/common"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "nodestore"))

var (
	// ErrNodeNotFound is returned when a node hash is not in the store.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEncodingMissing is returned when a node is referenced for the
	// first time without its encoding.
	ErrEncodingMissing = errors.New("node encoding missing")
	// ErrValueMalformed is returned when a stored value is too short
	// to contain a reference count.
	ErrValueMalformed = errors.New("stored node value is malformed")
)

// TableName is the database table prefix of the node store.
const TableName = "n"

const refCountLength = 8

// Metrics is the metrics interface used by the store.
type Metrics interface {
	NodesInserted(n uint)
	NodesDeleted(n uint)
	CacheHit()
	CacheMiss()
}

// Store is the persistent node store. Each node is stored under its
// hash as its big endian encoded reference count followed by its
// encoding. Reads are safe for concurrent use and are never observed
// in the middle of an Apply call.
type Store struct {
	db      database.Database
	table   database.Table
	cache   *lru.Cache
	metrics Metrics
	mutex   sync.RWMutex
}

// New creates a node store using the database given.
func New(db database.Database, settings Settings) (store *Store, err error) {
	settings.SetDefaults()

	cache, err := lru.New(*settings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating node cache: %w", err)
	}

	return &Store{
		db:      db,
		table:   db.NewTable(TableName),
		cache:   cache,
		metrics: settings.Metrics,
	}, nil
}

// Node returns the encoding of the node stored under the given hash.
// It returns the wrapped error ErrNodeNotFound if the node is not stored.
func (s *Store) Node(hash common.Hash) (encoding []byte, err error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if cached, ok := s.cache.Get(hash); ok {
		s.metrics.CacheHit()
		return cached.([]byte), nil
	}
	s.metrics.CacheMiss()

	_, encoding, err = s.get(hash)
	if err != nil {
		return nil, err
	}

	s.cache.Add(hash, encoding)
	return encoding, nil
}

// RefCount returns the persisted reference count of the node.
// It returns 0 if the node is not stored.
func (s *Store) RefCount(hash common.Hash) (refCount int64, err error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	refCount, _, err = s.get(hash)
	if errors.Is(err, ErrNodeNotFound) {
		return 0, nil
	}
	return refCount, err
}

func (s *Store) get(hash common.Hash) (refCount int64, encoding []byte, err error) {
	value, err := s.table.Get(hash[:])
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return 0, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, hash)
		}
		return 0, nil, fmt.Errorf("getting node %s: %w", hash, err)
	}
	return decodeValue(hash, value)
}

func encodeValue(refCount int64, encoding []byte) (value []byte) {
	value = make([]byte, refCountLength+len(encoding))
	binary.BigEndian.PutUint64(value, uint64(refCount))
	copy(value[refCountLength:], encoding)
	return value
}

func decodeValue(hash common.Hash, value []byte) (refCount int64, encoding []byte, err error) {
	if len(value) < refCountLength {
		return 0, nil, fmt.Errorf("%w: %d bytes for node %s",
			ErrValueMalformed, len(value), hash)
	}
	refCount = int64(binary.BigEndian.Uint64(value))
	encoding = value[refCountLength:]
	return refCount, encoding, nil
}
