// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package statedb provides versioned trie states over a persistent
// database, with a single writer batch at a time and concurrent
// readers of committed generations.
package statedb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/internal/log"
	"github.com/kushti/mpt/internal/pruner"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/lib/common"
	"github.com/kushti/mpt/pkg/trie"
	"github.com/kushti/mpt/pkg/trie/overlay"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "statedb"))

var (
	// ErrBatchInProgress is returned when beginning a batch
	// while another batch is not committed or rolled back yet.
	ErrBatchInProgress = errors.New("a batch is already in progress")
	// ErrBatchClosed is returned when using a batch
	// already committed or rolled back.
	ErrBatchClosed = errors.New("batch is closed")
	// ErrClosed is returned when using a closed state database.
	ErrClosed = errors.New("state database is closed")
	// ErrReadersPinned is returned when closing the state database
	// while readers are not unpinned yet.
	ErrReadersPinned = errors.New("readers are still pinned")
	// ErrCommitMismatch is returned when verifying commits and the
	// staged node changes do not match the diff of the trie roots.
	ErrCommitMismatch = errors.New("staged node changes do not match trie diff")
)

// StateDB is a versioned trie state database. Each committed batch
// creates a new generation of the state trie.
type StateDB struct {
	db     database.Database
	store  *nodestore.Store
	pruner *pruner.Pruner

	verifyCommits bool

	mutex         sync.Mutex
	batchInFlight bool
	readers       uint
	closed        bool
}

// Open opens the state database on the database given,
// reloading its generations journal.
func Open(db database.Database, settings Settings) (stateDB *StateDB, err error) {
	store, err := nodestore.New(db, settings.NodeStore)
	if err != nil {
		return nil, fmt.Errorf("creating node store: %w", err)
	}

	statePruner, err := pruner.New(db, store, settings.Pruner)
	if err != nil {
		return nil, fmt.Errorf("creating pruner: %w", err)
	}

	generation, root := statePruner.Head()
	logger.Infof("state opened at generation %d with root %s", generation, root)

	return &StateDB{
		db:            db,
		store:         store,
		pruner:        statePruner,
		verifyCommits: settings.VerifyCommits,
	}, nil
}

// Head returns the most recently committed generation and its root hash.
func (s *StateDB) Head() (generation uint64, root common.Hash) {
	return s.pruner.Head()
}

// Base returns the oldest retained generation.
func (s *StateDB) Base() (generation uint64) {
	return s.pruner.Base()
}

// Reader returns a read only trie of the retained generation given.
// The generation is pinned and cannot be pruned until the unpin
// function returned is called. The trie reads committed nodes only.
func (s *StateDB) Reader(generation uint64) (reader *trie.Trie, unpin func(), err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, nil, ErrClosed
	}

	unpinGeneration, err := s.pruner.Pin(generation)
	if err != nil {
		return nil, nil, fmt.Errorf("pinning generation: %w", err)
	}

	root, err := s.pruner.Root(generation)
	if err != nil {
		unpinGeneration()
		return nil, nil, fmt.Errorf("getting root of generation: %w", err)
	}

	s.readers++
	var once sync.Once
	unpin = func() {
		once.Do(func() {
			unpinGeneration()
			s.mutex.Lock()
			defer s.mutex.Unlock()
			s.readers--
		})
	}

	return trie.NewReader(root, s.store), unpin, nil
}

// Prune prunes all the generations older than upTo.
// It returns an error wrapping pruner.ErrPruneBlocked if
// one of these generations is pinned by a reader.
func (s *StateDB) Prune(upTo uint64) (err error) {
	s.mutex.Lock()
	closed := s.closed
	s.mutex.Unlock()
	if closed {
		return ErrClosed
	}

	return s.pruner.Prune(upTo)
}

// BeginBatch begins a new write batch on top of the head generation.
// Only one batch can be in progress at a time.
func (s *StateDB) BeginBatch() (batch *Batch, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case s.closed:
		return nil, ErrClosed
	case s.batchInFlight:
		return nil, ErrBatchInProgress
	}
	s.batchInFlight = true

	generation, root := s.pruner.Head()
	stagingArea := overlay.New(s.store)
	return &Batch{
		stateDB:          s,
		parentGeneration: generation,
		parentRoot:       root,
		overlay:          stagingArea,
		trie:             trie.New(root, stagingArea),
	}, nil
}

func (s *StateDB) endBatch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.batchInFlight = false
}

// Close closes the state database and its underlying database.
// A batch in progress must be committed or rolled back before,
// and all the readers must be unpinned.
func (s *StateDB) Close() (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	} else if s.batchInFlight {
		return fmt.Errorf("closing: %w", ErrBatchInProgress)
	} else if s.readers > 0 {
		return fmt.Errorf("closing: %w: %d reader(s)", ErrReadersPinned, s.readers)
	}
	s.closed = true

	err = s.db.Close()
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
