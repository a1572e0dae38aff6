// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/kushti/mpt/lib/common"
)

type putFunc func(key, value []byte) error

// keyValueGenerator derives pseudo random keys and values from a
// keccak hash chain.
type keyValueGenerator struct {
	seed common.Hash
}

// randomValue returns a single byte value or a 32 bytes value,
// depending on the parity of the first byte of the next seed.
func (g *keyValueGenerator) randomValue() []byte {
	g.seed = common.Keccak256(g.seed[:])
	if g.seed[0]%2 == 1 {
		return []byte{g.seed[31]}
	}
	return g.seed.ToBytes()
}

func (g *keyValueGenerator) random8Bytes() []byte {
	g.seed = common.Keccak256(g.seed[:])
	return append([]byte{}, g.seed[:8]...)
}

// workload produces the insertions of the bench command. The trie is
// first filled with random keys, and then each block adds new random
// keys and modifies the values of keys taken from a key cache.
// The key cache holds the first keys inserted, and every 50th added
// key replaces its last key.
type workload struct {
	generator     keyValueGenerator
	keyCache      [][]byte
	additions     int
	modifications int
	initialised   int
}

func newWorkload(seed common.Hash, keyCacheSize, additions, modifications int) *workload {
	keyCache := make([][]byte, keyCacheSize)
	for i := range keyCache {
		keyCache[i] = make([]byte, common.HashLength)
	}

	return &workload{
		generator:     keyValueGenerator{seed: seed},
		keyCache:      keyCache,
		additions:     additions,
		modifications: modifications,
	}
}

// initialise inserts count random keys with 8 bytes values.
func (w *workload) initialise(put putFunc, count int) (err error) {
	for i := 0; i < count; i++ {
		key := w.generator.randomValue()
		value := w.generator.random8Bytes()
		err = put(key, value)
		if err != nil {
			return err
		}

		if w.initialised < len(w.keyCache) {
			w.keyCache[w.initialised] = key
		}
		w.initialised++
	}
	return nil
}

// block inserts the additions and modifications of a block.
func (w *workload) block(put putFunc) (err error) {
	for i := 0; i < w.additions; i++ {
		key := w.generator.randomValue()
		value := w.generator.random8Bytes()
		err = put(key, value)
		if err != nil {
			return err
		}

		if i%50 == 0 && len(w.keyCache) > 0 {
			w.keyCache[len(w.keyCache)-1] = key
		}
	}

	for i := 0; i < w.modifications; i++ {
		err = put(w.keyCache[i], w.generator.random8Bytes())
		if err != nil {
			return err
		}
	}
	return nil
}
