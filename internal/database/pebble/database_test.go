// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pebble

import (
	"testing"

	"github.com/kushti/mpt/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTo[T any](value T) *T { return &value }

func newTestDatabase(t *testing.T, inMemory bool) *Database {
	t.Helper()

	db, err := New(Settings{
		Path:     t.TempDir(),
		InMemory: ptrTo(inMemory),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		err := db.Close()
		require.NoError(t, err)
	})
	return db
}

func Test_Database(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		inMemory bool
	}{
		"on_disk":   {},
		"in_memory": {inMemory: true},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := newTestDatabase(t, testCase.inMemory)

			err := db.Set([]byte{1}, []byte{2})
			require.NoError(t, err)

			value, err := db.Get([]byte{1})
			require.NoError(t, err)
			assert.Equal(t, []byte{2}, value)

			err = db.Delete([]byte{1})
			require.NoError(t, err)

			_, err = db.Get([]byte{1})
			assert.ErrorIs(t, err, database.ErrKeyNotFound)
		})
	}
}

func Test_writeBatch(t *testing.T) {
	t.Parallel()

	db := newTestDatabase(t, true)
	table := db.NewTable("prefix")

	batch := table.NewWriteBatch()
	err := batch.Set([]byte{1}, []byte{1})
	require.NoError(t, err)
	err = batch.Set([]byte{2}, []byte{2})
	require.NoError(t, err)
	err = batch.Delete([]byte{1})
	require.NoError(t, err)

	_, err = table.Get([]byte{2})
	require.ErrorIs(t, err, database.ErrKeyNotFound)

	err = batch.Flush()
	require.NoError(t, err)

	_, err = table.Get([]byte{1})
	require.ErrorIs(t, err, database.ErrKeyNotFound)
	value, err := db.Get(database.MakePrefixedKey([]byte("prefix"), []byte{2}))
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, value)

	batch = db.NewWriteBatch()
	err = batch.Set([]byte{3}, []byte{3})
	require.NoError(t, err)
	batch.Cancel()

	_, err = db.Get([]byte{3})
	require.ErrorIs(t, err, database.ErrKeyNotFound)
}

func Test_Settings_SetDefaults(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		originalSettings Settings
		expectedSettings Settings
	}{
		"empty_settings": {
			expectedSettings: Settings{
				Path:     ".",
				InMemory: ptrTo(false),
			},
		},
		"non_empty_settings": {
			originalSettings: Settings{
				Path:     "x",
				InMemory: ptrTo(true),
			},
			expectedSettings: Settings{
				Path:     "x",
				InMemory: ptrTo(true),
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			testCase.originalSettings.SetDefaults()
			assert.Equal(t, testCase.expectedSettings, testCase.originalSettings)
		})
	}
}
