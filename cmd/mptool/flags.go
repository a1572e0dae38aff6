// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/urfave/cli"
)

// Global configuration flags
var (
	// ConfigFlag TOML configuration file
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	// LogFlag cli service settings
	LogFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Global log level. Supports levels crit (silent), eror, warn, info, dbug and trce (trace)",
	}
	// BackendFlag database backend
	BackendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "Database backend, one of memory, pebble, badger and leveldb",
	}
	// BasePathFlag data directory for the database
	BasePathFlag = cli.StringFlag{
		Name:  "basepath",
		Usage: "Data directory for the database",
	}
	// VerifyCommitsFlag cross checks commits with trie diffs
	VerifyCommitsFlag = cli.BoolFlag{
		Name:  "verify-commits",
		Usage: "Check each commit's node changes against the diff of the trie roots",
	}
	// RetainGenerationsFlag automatic pruning depth
	RetainGenerationsFlag = cli.Int64Flag{
		Name:  "retain-generations",
		Usage: "Number of generations retained when pruning after each commit, 0 disables automatic pruning",
		Value: -1,
	}
)

// Command flags
var (
	GenerationsFlag = cli.IntFlag{
		Name:  "generations",
		Usage: "Number of blocks to commit, one generation each",
		Value: 100,
	}
	InitFlag = cli.IntFlag{
		Name:  "init",
		Usage: "Number of keys inserted before the first block",
		Value: 100000,
	}
	CommitEveryFlag = cli.IntFlag{
		Name:  "commit-every",
		Usage: "Number of initial keys inserted in each generation",
		Value: 10000,
	}
	AdditionsFlag = cli.IntFlag{
		Name:  "additions",
		Usage: "Number of new keys inserted in each block",
		Value: 500,
	}
	ModificationsFlag = cli.IntFlag{
		Name:  "modifications",
		Usage: "Number of keys from the key cache modified in each block",
		Value: 1500,
	}
	KeyCacheFlag = cli.IntFlag{
		Name:  "key-cache",
		Usage: "Number of keys kept in the key cache",
		Value: 10000,
	}
	SeedFlag = cli.StringFlag{
		Name:  "seed",
		Usage: "Seed of the keccak chain generating keys and values, empty for the zero hash",
	}
	MetricsAddressFlag = cli.StringFlag{
		Name:  "metrics-address",
		Usage: "Address to serve prometheus metrics on, empty disables the metrics server",
	}
	// GenerationFlag defaults to the head generation
	GenerationFlag = cli.Int64Flag{
		Name:  "generation",
		Usage: "Generation to use, -1 for the head generation",
		Value: -1,
	}
	KeyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hexadecimal encoded key",
	}
	ProofFlag = cli.BoolFlag{
		Name:  "proof",
		Usage: "Print and verify the Merkle proof of the key",
	}
	UpToFlag = cli.Int64Flag{
		Name:  "up-to",
		Usage: "Oldest generation to keep, -1 for the head generation",
		Value: -1,
	}
	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Path of the toml file to write",
		Value: "config.toml",
	}
)

var globalFlags = []cli.Flag{
	ConfigFlag,
	LogFlag,
	BackendFlag,
	BasePathFlag,
	RetainGenerationsFlag,
	VerifyCommitsFlag,
}

var benchFlags = []cli.Flag{
	InitFlag,
	CommitEveryFlag,
	GenerationsFlag,
	AdditionsFlag,
	ModificationsFlag,
	KeyCacheFlag,
	SeedFlag,
	MetricsAddressFlag,
}
