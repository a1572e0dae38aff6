// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/kushti/mpt/config"
	"github.com/kushti/mpt/internal/database/backend"
	"github.com/kushti/mpt/internal/log"
	"github.com/kushti/mpt/internal/pruner"
	"github.com/kushti/mpt/internal/statedb"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/urfave/cli"
)

// loadConfig loads the toml configuration file if one is given,
// or the default configuration otherwise, and applies the global
// flags on top of it.
func loadConfig(ctx *cli.Context) (cfg config.Config, err error) {
	cfg = config.Default()
	if path := ctx.GlobalString(ConfigFlag.Name); path != "" {
		logger.Info("loading toml configuration from " + path + "...")
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("loading configuration: %w", err)
		}
	}

	if level := ctx.GlobalString(LogFlag.Name); level != "" {
		cfg.Log.Level = level
	}
	if kind := ctx.GlobalString(BackendFlag.Name); kind != "" {
		cfg.Database.Backend = kind
	}
	if path := ctx.GlobalString(BasePathFlag.Name); path != "" {
		cfg.Database.Path = path
	}
	if ctx.GlobalBool(VerifyCommitsFlag.Name) {
		cfg.Trie.VerifyCommits = true
	}
	if retain := ctx.GlobalInt64(RetainGenerationsFlag.Name); retain >= 0 {
		cfg.Pruning.RetainGenerations = uint64(retain)
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, fmt.Errorf("validating configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger sets up the global logger.
func setupLogger(cfg config.Config) {
	log.Patch(
		log.SetWriter(os.Stdout),
		log.SetCallerFile(true),
		log.SetCallerLine(true),
		log.SetLevel(cfg.LogLevel()),
	)
}

type trieMetrics interface {
	nodestore.Metrics
	pruner.Metrics
}

// openStateDB opens the database backend and the state database on it.
// The metrics argument can be left to nil to use no-op metrics.
func openStateDB(cfg config.Config, metrics trieMetrics) (stateDB *statedb.StateDB, err error) {
	backendSettings, err := cfg.BackendSettings()
	if err != nil {
		return nil, err
	}

	db, err := backend.Open(backendSettings)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", backendSettings.Kind, err)
	}

	cacheSize := cfg.Trie.CacheSize
	retainGenerations := cfg.Pruning.RetainGenerations
	settings := statedb.Settings{
		NodeStore: nodestore.Settings{
			CacheSize: &cacheSize,
		},
		Pruner: pruner.Settings{
			RetainGenerations: &retainGenerations,
		},
		VerifyCommits: cfg.Trie.VerifyCommits,
	}
	if metrics != nil {
		settings.NodeStore.Metrics = metrics
		settings.Pruner.Metrics = metrics
	}

	stateDB, err = statedb.Open(db, settings)
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			logger.Warnf("closing database: %s", closeErr)
		}
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	return stateDB, nil
}

// setup loads the configuration, sets up the logger and opens
// the state database.
func setup(ctx *cli.Context, metrics trieMetrics) (stateDB *statedb.StateDB, err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	return openStateDB(cfg, metrics)
}

func closeStateDB(stateDB *statedb.StateDB, err *error) {
	closeErr := stateDB.Close()
	if *err == nil && closeErr != nil {
		*err = fmt.Errorf("closing state database: %w", closeErr)
	}
}

// resolveGeneration returns the head generation for -1,
// and the generation given otherwise.
func resolveGeneration(stateDB *statedb.StateDB, generation int64) uint64 {
	if generation < 0 {
		head, _ := stateDB.Head()
		return head
	}
	return uint64(generation)
}
