// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package pruner keeps the journal of committed trie generations and
// prunes the nodes no longer reachable from any retained generation.
package pruner

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gammazero/deque"
	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/internal/log"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/lib/common"
	"golang.org/x/exp/maps"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "pruner"))

var (
	// ErrPruneBlocked is returned when pruning would drop a pinned
	// generation. It is not fatal and pruning can be retried later.
	ErrPruneBlocked = errors.New("prune blocked by pinned generation")
	// ErrGenerationPruned is returned for a generation older
	// than the oldest retained generation.
	ErrGenerationPruned = errors.New("generation is pruned")
	// ErrUnknownGeneration is returned for a generation
	// newer than the head generation.
	ErrUnknownGeneration = errors.New("generation is not known")
)

// Pruner records a journal entry for each committed trie generation,
// and prunes old generations. Reference count increments of a commit
// are applied to the node store right away, whereas its decrements
// are deferred in the journal and only applied when the generation
// before it gets pruned. This way every node of every retained
// generation keeps a positive reference count in the node store.
type Pruner struct {
	// Configuration
	retainGenerations uint64

	// Dependency injected
	nodeStore NodeApplier
	database  database.Database
	journal   database.Table
	metrics   Metrics

	// Internal state
	// base is the oldest retained generation.
	base uint64
	// head is the most recent generation.
	head uint64
	// entries holds the entries of generations base to head included.
	entries deque.Deque[entry]
	// pins maps pinned generations to their number of pins.
	pins  map[uint64]uint
	mutex sync.Mutex
}

// New creates a pruner, loading the journal entries of the
// retained generations from the database. On an empty database,
// the journal starts at generation 0 with the empty trie root.
func New(db database.Database, nodeStore NodeApplier, settings Settings) (
	pruner *Pruner, err error) {
	settings.SetDefaults()

	pruner = &Pruner{
		retainGenerations: *settings.RetainGenerations,
		nodeStore:         nodeStore,
		database:          db,
		journal:           db.NewTable(TableName),
		metrics:           settings.Metrics,
		pins:              make(map[uint64]uint),
	}

	head, headFound, err := loadGeneration(pruner.journal, headKey)
	if err != nil {
		return nil, fmt.Errorf("loading head generation: %w", err)
	}

	if !headFound {
		err = pruner.initialise()
		if err != nil {
			return nil, fmt.Errorf("initialising journal: %w", err)
		}
		return pruner, nil
	}

	base, baseFound, err := loadGeneration(pruner.journal, baseKey)
	if err != nil {
		return nil, fmt.Errorf("loading base generation: %w", err)
	} else if !baseFound {
		return nil, fmt.Errorf("loading base generation: %w", database.ErrKeyNotFound)
	}

	for generation := base; generation <= head; generation++ {
		e, err := loadRecord(pruner.journal, generation)
		if err != nil {
			return nil, err
		}
		pruner.entries.PushBack(e)
	}
	pruner.base = base
	pruner.head = head

	logger.Debugf("journal loaded with generations %d to %d", base, head)
	return pruner, nil
}

func (p *Pruner) initialise() (err error) {
	genesis := entry{root: common.EmptyRootHash}

	batch := p.database.NewWriteBatch()
	journalBatch := p.journal.WrapWriteBatch(batch)

	err = storeRecord(journalBatch, 0, genesis)
	if err == nil {
		err = storeGeneration(journalBatch, headKey, 0)
	}
	if err == nil {
		err = storeGeneration(journalBatch, baseKey, 0)
	}
	if err != nil {
		batch.Cancel()
		return err
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing write batch: %w", err)
	}

	p.entries.PushBack(genesis)
	return nil
}

// Head returns the most recent generation and its root hash.
func (p *Pruner) Head() (generation uint64, root common.Hash) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.head, p.entries.Back().root
}

// Base returns the oldest retained generation.
func (p *Pruner) Base() (generation uint64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.base
}

// Root returns the root hash recorded for the retained generation given.
func (p *Pruner) Root(generation uint64) (root common.Hash, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	err = p.checkRetained(generation)
	if err != nil {
		return root, err
	}
	return p.entries.At(int(generation - p.base)).root, nil
}

func (p *Pruner) checkRetained(generation uint64) (err error) {
	switch {
	case generation < p.base:
		return fmt.Errorf("%w: %d is older than the oldest retained generation %d",
			ErrGenerationPruned, generation, p.base)
	case generation > p.head:
		return fmt.Errorf("%w: %d is newer than the head generation %d",
			ErrUnknownGeneration, generation, p.head)
	default:
		return nil
	}
}

// Pin pins the retained generation given so it cannot be pruned
// until the returned unpin function is called.
// The unpin function can safely be called more than once.
func (p *Pruner) Pin(generation uint64) (unpin func(), err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	err = p.checkRetained(generation)
	if err != nil {
		return nil, err
	}

	p.pins[generation]++

	var once sync.Once
	unpin = func() {
		once.Do(func() {
			p.mutex.Lock()
			defer p.mutex.Unlock()
			p.pins[generation]--
			if p.pins[generation] == 0 {
				delete(p.pins, generation)
			}
		})
	}
	return unpin, nil
}

// Commit records a new head generation with the root and node changes
// given. The positive changes are applied to the node store together
// with the journal entry and the writes of the stagers given in a
// single atomic write batch, and the
// negative changes are deferred in the journal entry.
// If automatic pruning is enabled, generations falling off the
// retained window are then pruned.
func (p *Pruner) Commit(root common.Hash, changes []nodestore.Change,
	stagers ...nodestore.Stager) (generation uint64, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	generation = p.head + 1

	inserted := make([]nodestore.Change, 0, len(changes))
	newEntry := entry{root: root}
	for _, change := range changes {
		switch {
		case change.Delta > 0:
			inserted = append(inserted, change)
			newEntry.inserted = append(newEntry.inserted, nodestore.Change{
				Hash:  change.Hash,
				Delta: change.Delta,
			})
		case change.Delta < 0:
			newEntry.removed = append(newEntry.removed, nodestore.Change{
				Hash:  change.Hash,
				Delta: change.Delta,
			})
		}
	}

	stager := func(batch database.WriteBatch) (err error) {
		journalBatch := p.journal.WrapWriteBatch(batch)
		err = storeRecord(journalBatch, generation, newEntry)
		if err != nil {
			return err
		}
		return storeGeneration(journalBatch, headKey, generation)
	}

	stagers = append(stagers, stager)
	err = p.nodeStore.Apply(inserted, stagers...)
	if err != nil {
		return 0, fmt.Errorf("applying changes of generation %d: %w", generation, err)
	}

	p.entries.PushBack(newEntry)
	p.head = generation
	p.metrics.Committed(generation)
	logger.Debugf("generation %d committed with root %s: %d node(s) inserted and %d deferred removal(s)",
		generation, root.Short(), len(inserted), len(newEntry.removed))

	if p.retainGenerations == 0 || p.head < p.retainGenerations {
		return generation, nil
	}

	// The commit is durable at this point, so pruning failures are
	// only logged and pruning is retried on the next commit.
	upTo := p.head - p.retainGenerations + 1
	err = p.prune(upTo)
	if errors.Is(err, ErrPruneBlocked) {
		logger.Debugf("automatic pruning up to generation %d: %s", upTo, err)
	} else if err != nil {
		logger.Warnf("automatic pruning up to generation %d: %s", upTo, err)
	}

	return generation, nil
}

// Prune prunes all the generations older than upTo, which becomes the
// oldest retained generation. A value of upTo newer than the head
// generation is lowered to the head generation, and a value of upTo
// not newer than the oldest retained generation is a no-op.
// It returns an error wrapping ErrPruneBlocked if a generation older
// than upTo is pinned.
func (p *Pruner) Prune(upTo uint64) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.prune(upTo)
}

func (p *Pruner) prune(upTo uint64) (err error) {
	if upTo > p.head {
		upTo = p.head
	}

	if upTo <= p.base {
		return nil
	}

	pinned := pinnedBefore(p.pins, upTo)
	if len(pinned) > 0 {
		p.metrics.PruneBlocked()
		return fmt.Errorf("%w: generation %d is pinned", ErrPruneBlocked, pinned[0])
	}

	// Decrements recorded in a generation are applied once the
	// generation before it is pruned.
	var removed []nodestore.Change
	for generation := p.base + 1; generation <= upTo; generation++ {
		removed = append(removed, p.entries.At(int(generation-p.base)).removed...)
	}

	base := p.base
	stager := func(batch database.WriteBatch) (err error) {
		journalBatch := p.journal.WrapWriteBatch(batch)
		for generation := base; generation < upTo; generation++ {
			err = journalBatch.Delete(makeRecordKey(generation))
			if err != nil {
				return fmt.Errorf("deleting journal record for generation %d: %w", generation, err)
			}
		}
		return storeGeneration(journalBatch, baseKey, upTo)
	}

	err = p.nodeStore.Apply(removed, stager)
	if err != nil {
		return fmt.Errorf("applying deferred removals: %w", err)
	}

	for generation := p.base; generation < upTo; generation++ {
		p.entries.PopFront()
	}
	p.base = upTo

	p.metrics.Pruned(upTo, uint(len(removed)))
	logger.Debugf("pruned generations %d to %d with %d deferred removal(s) applied",
		base, upTo-1, len(removed))
	return nil
}

func pinnedBefore(pins map[uint64]uint, upTo uint64) (generations []uint64) {
	for _, generation := range maps.Keys(pins) {
		if generation < upTo {
			generations = append(generations, generation)
		}
	}
	sort.Slice(generations, func(i, j int) bool {
		return generations[i] < generations[j]
	})
	return generations
}
