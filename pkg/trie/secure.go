// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"github.com/kushti/mpt/lib/common"
)

// SecureTrie wraps a trie, hashing all keys with keccak256 before
// using them, so that an adversary cannot grow long trie paths.
type SecureTrie struct {
	trie *Trie
}

// NewSecure returns a secure trie with the given root hash.
func NewSecure(root common.Hash, db Database) *SecureTrie {
	return &SecureTrie{trie: New(root, db)}
}

// Hash returns the root hash of the trie.
func (s *SecureTrie) Hash() common.Hash {
	return s.trie.Hash()
}

// Get returns the value for the hashed key, or nil if absent.
func (s *SecureTrie) Get(key []byte) (value []byte, err error) {
	return s.trie.Get(hashKey(key))
}

// Put inserts or updates the value for the hashed key.
func (s *SecureTrie) Put(key, value []byte) (err error) {
	return s.trie.Put(hashKey(key), value)
}

// Delete removes the hashed key.
func (s *SecureTrie) Delete(key []byte) (err error) {
	return s.trie.Delete(hashKey(key))
}

// Prove returns a proof for the hashed key.
func (s *SecureTrie) Prove(key []byte) (proof [][]byte, err error) {
	return s.trie.Prove(hashKey(key))
}

func hashKey(key []byte) []byte {
	return common.Keccak256(key).ToBytes()
}
