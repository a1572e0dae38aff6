// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"github.com/dgraph-io/badger/v2"
)

type operation struct {
	key    []byte
	value  []byte
	delete bool
}

// writeBatch buffers operations and applies them in a single
// badger read-write transaction, which is atomic, as opposed to
// the badger WriteBatch which may split writes over several
// transactions.
type writeBatch struct {
	operations     []operation
	badgerDatabase *badger.DB
}

func newWriteBatch(badgerDatabase *badger.DB) *writeBatch {
	return &writeBatch{
		badgerDatabase: badgerDatabase,
	}
}

// Set stages setting a value at the given key.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:   copyBytes(key),
		value: copyBytes(value),
	})
	return nil
}

// Delete stages deleting the given key.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:    copyBytes(key),
		delete: true,
	})
	return nil
}

// Flush flushes the write batch to the database.
func (wb *writeBatch) Flush() (err error) {
	err = wb.badgerDatabase.Update(func(txn *badger.Txn) error {
		for _, op := range wb.operations {
			var err error
			if op.delete {
				err = txn.Delete(op.key)
			} else {
				err = txn.Set(op.key, op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return transformError(err)
	}

	wb.operations = nil
	return nil
}

// Cancel cancels the write batch.
func (wb *writeBatch) Cancel() {
	wb.operations = nil
}

func copyBytes(b []byte) (bCopy []byte) {
	bCopy = make([]byte, len(b))
	copy(bCopy, b)
	return bCopy
}
