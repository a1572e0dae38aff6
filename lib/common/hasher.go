// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// KeccakState wraps sha3.state. In addition to the usual hash methods, it also supports
// Read to get a variable amount of data from the hash state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakPool = sync.Pool{
	New: func() interface{} {
		return sha3.NewLegacyKeccak256().(KeccakState)
	},
}

// Keccak256 returns the keccak256 hash of the concatenated input data
func Keccak256(data ...[]byte) (h Hash) {
	state := keccakPool.Get().(KeccakState)
	defer keccakPool.Put(state)

	state.Reset()
	for _, b := range data {
		_, _ = state.Write(b)
	}
	_, _ = state.Read(h[:])
	return h
}
