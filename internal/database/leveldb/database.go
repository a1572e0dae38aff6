// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package leveldb provides a database implementation using goleveldb.
package leveldb

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/internal/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var _ database.Database = (*Database)(nil)

// Database is database implementation using a goleveldb database.
type Database struct {
	levelDB *leveldb.DB
}

// New returns a new database based on a goleveldb database.
func New(settings Settings) (db *Database, err error) {
	settings.SetDefaults()

	options := &opt.Options{
		BlockCacheCapacity: settings.CacheSize * opt.MiB,
	}

	var levelDB *leveldb.DB
	if *settings.InMemory {
		levelDB, err = leveldb.Open(storage.NewMemStorage(), options)
	} else {
		levelDB, err = leveldb.OpenFile(settings.Path, options)
	}
	if err != nil {
		return nil, fmt.Errorf("opening leveldb database: %w", err)
	}

	return &Database{
		levelDB: levelDB,
	}, nil
}

// Get retrieves a value from the database using the given key.
// It returns the wrapped error `database.ErrKeyNotFound` if the
// key is not found.
func (db *Database) Get(key []byte) (value []byte, err error) {
	value, err = db.levelDB.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%w: 0x%x", database.ErrKeyNotFound, key)
		}
		return nil, transformError(err)
	}
	return value, nil
}

// Set sets a value at the given key in the database.
func (db *Database) Set(key, value []byte) (err error) {
	return transformError(db.levelDB.Put(key, value, nil))
}

// Delete deletes the given key from the database.
// If the key is not found, no error is returned.
func (db *Database) Delete(key []byte) (err error) {
	return transformError(db.levelDB.Delete(key, nil))
}

// NewWriteBatch returns a new write batch for the database.
func (db *Database) NewWriteBatch() (writeBatch database.WriteBatch) {
	return &leveldbWriteBatch{
		batch:   new(leveldb.Batch),
		levelDB: db.levelDB,
	}
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (db *Database) NewTable(prefix string) (dbTable database.Table) {
	return database.NewTable(db, prefix)
}

// Close closes the database.
func (db *Database) Close() (err error) {
	return transformError(db.levelDB.Close())
}

func transformError(levelDBErr error) (err error) {
	if errors.Is(levelDBErr, leveldb.ErrClosed) {
		return fmt.Errorf("%w", database.ErrClosed)
	}
	return levelDBErr
}

type leveldbWriteBatch struct {
	batch   *leveldb.Batch
	levelDB *leveldb.DB
}

func (wb *leveldbWriteBatch) Set(key, value []byte) error {
	wb.batch.Put(key, value)
	return nil
}

func (wb *leveldbWriteBatch) Delete(key []byte) error {
	wb.batch.Delete(key)
	return nil
}

func (wb *leveldbWriteBatch) Flush() error {
	err := wb.levelDB.Write(wb.batch, nil)
	if err != nil {
		return fmt.Errorf("writing batch: %w", transformError(err))
	}
	wb.batch.Reset()
	return nil
}

func (wb *leveldbWriteBatch) Cancel() {
	wb.batch.Reset()
}
