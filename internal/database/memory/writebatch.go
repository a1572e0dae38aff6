// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

type operation struct {
	key    string
	value  []byte
	delete bool
}

type writeBatch struct {
	operations []operation
	database   *Database
}

func newWriteBatch(database *Database) *writeBatch {
	return &writeBatch{
		database: database,
	}
}

// Set stages setting a value at the given key.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:   string(key),
		value: copyBytes(value),
	})
	return nil
}

// Delete stages deleting the given key.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:    string(key),
		delete: true,
	})
	return nil
}

// Flush applies all staged operations in order, holding the
// database lock for the whole batch so readers never observe
// a partially applied batch.
func (wb *writeBatch) Flush() (err error) {
	wb.database.mutex.Lock()
	defer wb.database.mutex.Unlock()
	wb.database.panicOnClosed()

	for _, op := range wb.operations {
		if op.delete {
			delete(wb.database.keyValues, op.key)
			continue
		}
		wb.database.keyValues[op.key] = op.value
	}
	wb.operations = nil
	return nil
}

// Cancel discards all staged operations.
func (wb *writeBatch) Cancel() {
	wb.operations = nil
}
