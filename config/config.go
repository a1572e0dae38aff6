// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package config defines the toml configuration of the mptool program.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kushti/mpt/internal/database/backend"
	"github.com/kushti/mpt/internal/log"
	"github.com/naoina/toml"
)

// Config is a collection of configurations for the state database.
type Config struct {
	Log      LogConfig      `toml:"log,omitempty"`
	Database DatabaseConfig `toml:"database,omitempty"`
	Trie     TrieConfig     `toml:"trie,omitempty"`
	Pruning  PruningConfig  `toml:"pruning,omitempty"`
}

// LogConfig is to marshal/unmarshal toml log config vars
type LogConfig struct {
	Level string `toml:"level,omitempty"`
}

// DatabaseConfig is to marshal/unmarshal toml database config vars
type DatabaseConfig struct {
	Backend  string `toml:"backend,omitempty"`
	Path     string `toml:"path,omitempty"`
	InMemory bool   `toml:"in-memory,omitempty"`
}

// TrieConfig is to marshal/unmarshal toml trie config vars
type TrieConfig struct {
	CacheSize     int  `toml:"cache-size,omitempty"`
	VerifyCommits bool `toml:"verify-commits,omitempty"`
}

// PruningConfig is to marshal/unmarshal toml pruning config vars
type PruningConfig struct {
	RetainGenerations uint64 `toml:"retain-generations,omitempty"`
}

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
	// DefaultBackend is the default database backend.
	DefaultBackend = string(backend.Pebble)
	// DefaultPath is the default database directory path.
	DefaultPath = "~/.mpt"
	// DefaultCacheSize is the default number of node encodings cached.
	DefaultCacheSize = 65536
	// DefaultRetainGenerations is the default number of generations
	// retained when pruning automatically.
	DefaultRetainGenerations = 128
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Database: DatabaseConfig{
			Backend: DefaultBackend,
			Path:    DefaultPath,
		},
		Trie: TrieConfig{
			CacheSize: DefaultCacheSize,
		},
		Pruning: PruningConfig{
			RetainGenerations: DefaultRetainGenerations,
		},
	}
}

// Load reads the toml configuration file at the given path on top
// of the default configuration, and validates the result.
func Load(path string) (config Config, err error) {
	config = Default()

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return config, fmt.Errorf("opening configuration file: %w", err)
	}

	err = toml.NewDecoder(file).Decode(&config)
	closeErr := file.Close()
	if err != nil {
		return config, fmt.Errorf("decoding toml: %w", err)
	} else if closeErr != nil {
		return config, fmt.Errorf("closing configuration file: %w", closeErr)
	}

	err = config.Validate()
	if err != nil {
		return config, fmt.Errorf("validating configuration: %w", err)
	}

	return config, nil
}

// Write exports the configuration to a toml file at the given path.
func (c Config) Write(path string) (err error) {
	raw, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}

	err = os.WriteFile(path, raw, 0600)
	if err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

var (
	ErrBackendNotSupported = errors.New("database backend is not supported")
	ErrPathEmpty           = errors.New("database path is empty")
	ErrCacheSizeNegative   = errors.New("cache size cannot be negative")
)

// Validate returns an error if the configuration is invalid.
func (c Config) Validate() (err error) {
	_, err = log.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	switch backend.Kind(c.Database.Backend) {
	case backend.Memory:
	case backend.Pebble, backend.Badger, backend.LevelDB:
		if c.Database.Path == "" && !c.Database.InMemory {
			return fmt.Errorf("%w: for backend %s", ErrPathEmpty, c.Database.Backend)
		}
	default:
		return fmt.Errorf("%w: %s", ErrBackendNotSupported, c.Database.Backend)
	}

	if c.Trie.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrCacheSizeNegative, c.Trie.CacheSize)
	}

	return nil
}

// LogLevel returns the parsed log level.
// The configuration must be validated before.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// BackendSettings returns the database backend settings.
// A leading ~ in the database path is expanded to the home directory.
func (c Config) BackendSettings() (settings backend.Settings, err error) {
	path, err := expandDir(c.Database.Path)
	if err != nil {
		return settings, fmt.Errorf("expanding database path: %w", err)
	}

	return backend.Settings{
		Kind:     backend.Kind(c.Database.Backend),
		Path:     path,
		InMemory: c.Database.InMemory,
	}, nil
}

func expandDir(path string) (expanded string, err error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
