// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package database defines the key value store boundary used
// by the trie node store and the journal.
package database

import (
	"errors"
)

var (
	// ErrKeyNotFound is returned, wrapped, by Get when the key is not found.
	ErrKeyNotFound = errors.New("key not found")
	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database is closed")
)

// Reader reads values from the database.
type Reader interface {
	Get(key []byte) (value []byte, err error)
}

// Writer writes values to the database.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// WriteBatch stages writes which are applied atomically on Flush:
// either all writes of the batch are visible or none are.
type WriteBatch interface {
	Writer
	Flush() error
	Cancel()
}

// Table is a view of the database where all keys are prefixed
// with the table prefix.
type Table interface {
	Reader
	Writer
	NewWriteBatch() WriteBatch
	// WrapWriteBatch returns a write batch prefixing all keys with
	// the table prefix and staging them in the given batch. Flushing
	// the parent batch applies writes of every table it is shared with.
	WrapWriteBatch(parent WriteBatch) WriteBatch
}

// Database is the database interface.
type Database interface {
	Reader
	Writer
	NewWriteBatch() WriteBatch
	NewTable(prefix string) Table
	Close() error
}
