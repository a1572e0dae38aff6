// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package backend opens one of the supported database implementations.
package backend

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/internal/database"
	"github.com/kushti/mpt/internal/database/badger"
	"github.com/kushti/mpt/internal/database/leveldb"
	"github.com/kushti/mpt/internal/database/memory"
	"github.com/kushti/mpt/internal/database/pebble"
)

// Kind is the kind of database backend.
type Kind string

const (
	Memory  Kind = "memory"
	Pebble  Kind = "pebble"
	Badger  Kind = "badger"
	LevelDB Kind = "leveldb"
)

var ErrKindNotSupported = errors.New("database backend is not supported")

// Settings are the settings to open a database backend.
type Settings struct {
	Kind     Kind
	Path     string
	InMemory bool
}

// Open opens the database backend described by the settings.
func Open(settings Settings) (db database.Database, err error) {
	switch settings.Kind {
	case Memory:
		return memory.New(), nil
	case Pebble:
		return pebble.New(pebble.Settings{
			Path:     settings.Path,
			InMemory: &settings.InMemory,
		})
	case Badger:
		return badger.New(badger.Settings{
			Path:     settings.Path,
			InMemory: &settings.InMemory,
		})
	case LevelDB:
		return leveldb.New(leveldb.Settings{
			Path:     settings.Path,
			InMemory: &settings.InMemory,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrKindNotSupported, settings.Kind)
	}
}
