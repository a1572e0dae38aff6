// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package pebble provides a database implementation using pebble.
package pebble

import (
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/kushti/mpt/internal/database"
)

var _ database.Database = (*Database)(nil)

// Database is database implementation using a pebble database.
type Database struct {
	path     string
	pebbleDB *pebble.DB
}

// New returns a new database based on a pebble database.
func New(settings Settings) (*Database, error) {
	settings.SetDefaults()
	err := settings.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	opts := &pebble.Options{}
	if *settings.InMemory {
		opts.FS = vfs.NewMem()
	} else {
		err = os.MkdirAll(settings.Path, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	pebbleDB, err := pebble.Open(settings.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("opening pebble database: %w", err)
	}

	return &Database{
		path:     settings.Path,
		pebbleDB: pebbleDB,
	}, nil
}

// Get retrieves a value from the database using the given key.
// It returns the wrapped error `database.ErrKeyNotFound` if the
// key is not found.
func (db *Database) Get(key []byte) (value []byte, err error) {
	value, closer, err := db.pebbleDB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: 0x%x", database.ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("getting 0x%x from database: %w", key, transformError(err))
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	err = closer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing after get: %w", err)
	}

	return valueCopy, nil
}

// Set sets a value at the given key in the database.
func (db *Database) Set(key, value []byte) (err error) {
	err = db.pebbleDB.Set(key, value, pebble.Sync)
	if err != nil {
		return fmt.Errorf("writing 0x%x to database: %w", key, transformError(err))
	}
	return nil
}

// Delete deletes the given key from the database.
// If the key is not found, no error is returned.
func (db *Database) Delete(key []byte) (err error) {
	err = db.pebbleDB.Delete(key, pebble.Sync)
	if err != nil {
		return fmt.Errorf("deleting 0x%x from database: %w", key, transformError(err))
	}
	return nil
}

// NewWriteBatch returns a new write batch for the database.
func (db *Database) NewWriteBatch() (batch database.WriteBatch) {
	return &writeBatch{
		batch: db.pebbleDB.NewBatch(),
	}
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (db *Database) NewTable(prefix string) (dbTable database.Table) {
	return database.NewTable(db, prefix)
}

// Path returns the database directory path.
func (db *Database) Path() string {
	return db.path
}

// Close closes the database.
func (db *Database) Close() (err error) {
	return transformError(db.pebbleDB.Close())
}

func transformError(pebbleErr error) (err error) {
	if errors.Is(pebbleErr, pebble.ErrClosed) {
		return fmt.Errorf("%w", database.ErrClosed)
	}
	return pebbleErr
}
