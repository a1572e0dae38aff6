// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

type table struct {
	prefix   []byte
	database Database
}

// NewTable returns a table on top of the given database, prefixing
// every key with the given prefix.
func NewTable(database Database, prefix string) Table {
	return &table{
		prefix:   []byte(prefix),
		database: database,
	}
}

// Get retrieves a value from the database using the given key
// prefixed with the table prefix.
// It returns the wrapped error `ErrKeyNotFound` if the
// prefixed key is not found.
func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(MakePrefixedKey(t.prefix, key))
}

// Set sets a value at the given key prefixed with the table prefix
// in the database.
func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(MakePrefixedKey(t.prefix, key), value)
}

// Delete deletes the given key prefixed with the table prefix
// from the database. If the key is not found, no error is returned.
func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(MakePrefixedKey(t.prefix, key))
}

// NewWriteBatch returns a new write batch for the database,
// using the table prefix to prefix all keys.
func (t *table) NewWriteBatch() WriteBatch {
	return t.WrapWriteBatch(t.database.NewWriteBatch())
}

// WrapWriteBatch returns a prefixed view of the parent write batch.
func (t *table) WrapWriteBatch(parent WriteBatch) WriteBatch {
	return &prefixedWriteBatch{
		prefix: t.prefix,
		parent: parent,
	}
}

type prefixedWriteBatch struct {
	prefix []byte
	parent WriteBatch
}

func (wb *prefixedWriteBatch) Set(key, value []byte) error {
	return wb.parent.Set(MakePrefixedKey(wb.prefix, key), value)
}

func (wb *prefixedWriteBatch) Delete(key []byte) error {
	return wb.parent.Delete(MakePrefixedKey(wb.prefix, key))
}

func (wb *prefixedWriteBatch) Flush() error {
	return wb.parent.Flush()
}

func (wb *prefixedWriteBatch) Cancel() {
	wb.parent.Cancel()
}

// MakePrefixedKey returns a newly allocated key made of the
// prefix followed by the key.
func MakePrefixedKey(prefix, key []byte) (prefixedKey []byte) {
	// WARNING: Do not use:
	// return append(prefix, key...)
	// since the prefix might have a capacity larger than its length,
	// and that would produce data corruption on prefixed keys pointing
	// to the prefix underlying memory array.
	prefixedKey = make([]byte, 0, len(prefix)+len(key))
	prefixedKey = append(prefixedKey, prefix...)
	prefixedKey = append(prefixedKey, key...)
	return prefixedKey
}
