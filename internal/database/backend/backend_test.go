// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Open(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings   Settings
		errWrapped error
		errMessage string
	}{
		"memory": {
			settings: Settings{Kind: Memory},
		},
		"pebble_in_memory": {
			settings: Settings{Kind: Pebble, InMemory: true},
		},
		"badger_in_memory": {
			settings: Settings{Kind: Badger, InMemory: true},
		},
		"leveldb_in_memory": {
			settings: Settings{Kind: LevelDB, InMemory: true},
		},
		"unknown": {
			settings:   Settings{Kind: "rocksdb"},
			errWrapped: ErrKindNotSupported,
			errMessage: "database backend is not supported: rocksdb",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db, err := Open(testCase.settings)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
				return
			}

			err = db.Set([]byte{1}, []byte{1})
			require.NoError(t, err)
			value, err := db.Get([]byte{1})
			require.NoError(t, err)
			assert.Equal(t, []byte{1}, value)

			err = db.Close()
			require.NoError(t, err)
		})
	}
}
