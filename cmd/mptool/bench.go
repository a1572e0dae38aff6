// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kushti/mpt/internal/metrics"
	"github.com/kushti/mpt/internal/statedb"
	trieprometheus "github.com/kushti/mpt/internal/trie/metrics/prometheus"
	"github.com/kushti/mpt/lib/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

var ErrModificationsExceedKeyCache = errors.New("modifications exceed the key cache size")

// benchMetrics counts the nodes deleted from the node store,
// and forwards all metrics to the prometheus collectors.
type benchMetrics struct {
	*trieprometheus.Metrics
	nodesDeleted atomic.Uint64
}

func (b *benchMetrics) NodesDeleted(n uint) {
	b.nodesDeleted.Add(uint64(n))
	b.Metrics.NodesDeleted(n)
}

func benchAction(ctx *cli.Context) (err error) {
	keyCacheSize := ctx.Int(KeyCacheFlag.Name)
	modifications := ctx.Int(ModificationsFlag.Name)
	if modifications > keyCacheSize {
		return fmt.Errorf("%w: %d modifications for a key cache of %d keys",
			ErrModificationsExceedKeyCache, modifications, keyCacheSize)
	}

	registry := prometheus.NewRegistry()
	collectors, err := trieprometheus.New(registry)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	counters := &benchMetrics{Metrics: collectors}

	stateDB, err := setup(ctx, counters)
	if err != nil {
		return err
	}
	defer closeStateDB(stateDB, &err)

	if address := ctx.String(MetricsAddressFlag.Name); address != "" {
		server := metrics.NewServer(address, registry)
		err = server.Start()
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer func() {
			stopErr := server.Stop()
			if stopErr != nil {
				logger.Warnf("stopping metrics server: %s", stopErr)
			}
		}()
	}

	var seed common.Hash
	if s := ctx.String(SeedFlag.Name); s != "" {
		seed = common.Keccak256([]byte(s))
	}
	load := newWorkload(seed, keyCacheSize, ctx.Int(AdditionsFlag.Name), modifications)

	initialKeys := ctx.Int(InitFlag.Name)
	commitEvery := ctx.Int(CommitEveryFlag.Name)
	if commitEvery <= 0 {
		commitEvery = initialKeys
	}
	for inserted := 0; inserted < initialKeys; inserted += commitEvery {
		count := commitEvery
		if remaining := initialKeys - inserted; remaining < count {
			count = remaining
		}
		err = commitBatch(stateDB, func(put putFunc) error {
			return load.initialise(put, count)
		})
		if err != nil {
			return fmt.Errorf("initialising: %w", err)
		}
		logger.Infof("initialised %d key(s)", inserted+count)
	}

	generations := ctx.Int(GenerationsFlag.Name)
	start := time.Now()
	for i := 0; i < generations; i++ {
		blockStart := time.Now()
		err = commitBatch(stateDB, load.block)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		logger.Debugf("block %d committed in %s", i, time.Since(blockStart))
	}
	elapsed := time.Since(start)

	head, root := stateDB.Head()
	fmt.Fprintf(ctx.App.Writer, "committed %d block(s) of %d addition(s) and %d modification(s) in %s\n",
		generations, load.additions, load.modifications, elapsed)
	fmt.Fprintf(ctx.App.Writer, "head generation %d with root %s, base generation %d\n",
		head, root, stateDB.Base())
	fmt.Fprintf(ctx.App.Writer, "pruned %d node(s)\n", counters.nodesDeleted.Load())
	return nil
}

// commitBatch runs the insertions given in a new batch and commits it.
func commitBatch(stateDB *statedb.StateDB, insert func(put putFunc) error) (err error) {
	batch, err := stateDB.BeginBatch()
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}

	err = insert(batch.Put)
	if err != nil {
		batch.Rollback()
		return fmt.Errorf("inserting: %w", err)
	}

	generation, root, err := batch.Commit()
	if err != nil {
		batch.Rollback()
		return fmt.Errorf("committing batch: %w", err)
	}

	logger.Debugf("committed generation %d with root %s", generation, root)
	return nil
}
