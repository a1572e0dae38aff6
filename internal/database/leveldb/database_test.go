// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package leveldb

import (
	"testing"

	"github.com/kushti/mpt/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTo[T any](value T) *T { return &value }

func Test_Database(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings Settings
	}{
		"in_memory": {
			settings: Settings{InMemory: ptrTo(true)},
		},
		"on_disk": {
			settings: Settings{Path: t.TempDir()},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db, err := New(testCase.settings)
			require.NoError(t, err)

			err = db.Set([]byte{1}, []byte{2})
			require.NoError(t, err)

			value, err := db.Get([]byte{1})
			require.NoError(t, err)
			assert.Equal(t, []byte{2}, value)

			batch := db.NewTable("t").NewWriteBatch()
			err = batch.Set([]byte{1}, []byte{3})
			require.NoError(t, err)
			err = batch.Delete([]byte{2})
			require.NoError(t, err)
			err = batch.Flush()
			require.NoError(t, err)

			value, err = db.Get([]byte{'t', 1})
			require.NoError(t, err)
			assert.Equal(t, []byte{3}, value)

			err = db.Delete([]byte{1})
			require.NoError(t, err)
			_, err = db.Get([]byte{1})
			assert.ErrorIs(t, err, database.ErrKeyNotFound)

			err = db.Close()
			require.NoError(t, err)

			_, err = db.Get([]byte{1})
			assert.ErrorIs(t, err, database.ErrClosed)
		})
	}
}
