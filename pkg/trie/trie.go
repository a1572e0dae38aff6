// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package trie implements a persistent Merkle Patricia trie whose
// nodes are stored by hash in a reference counted node database.
package trie

import (
	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/lib/common"
)

// Trie is a Merkle Patricia trie identified by its root hash.
// Mutations stage node writes in its database and move the trie
// to a new root hash, the previous root staying readable as long
// as its nodes are not pruned.
// A Trie is not safe for concurrent mutation.
type Trie struct {
	root   common.Hash
	reader NodeReader
	// db is nil for a read only trie.
	db Database
}

// New returns a trie with the given root hash using the node
// database given to read and stage nodes.
func New(root common.Hash, db Database) *Trie {
	return &Trie{
		root:   normalizeRoot(root),
		reader: db,
		db:     db,
	}
}

// NewEmpty returns an empty trie using the node database given.
func NewEmpty(db Database) *Trie {
	return New(common.EmptyRootHash, db)
}

// NewReader returns a read only trie with the given root hash.
func NewReader(root common.Hash, reader NodeReader) *Trie {
	return &Trie{
		root:   normalizeRoot(root),
		reader: reader,
	}
}

func normalizeRoot(root common.Hash) common.Hash {
	if root == common.EmptyHash {
		return common.EmptyRootHash
	}
	return root
}

// Hash returns the root hash of the trie.
func (t *Trie) Hash() common.Hash {
	return t.root
}

// Get returns the value for the key given, or nil if the key is absent.
func (t *Trie) Get(key []byte) (value []byte, err error) {
	return Get(t.reader, t.root, key)
}

// Put inserts or updates the value for the key given.
// An empty value deletes the key.
func (t *Trie) Put(key, value []byte) (err error) {
	if t.db == nil {
		return ErrReadOnly
	}

	root, err := Insert(t.db, t.root, key, value)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Delete removes the key from the trie. Deleting an absent
// key is a no-op.
func (t *Trie) Delete(key []byte) (err error) {
	if t.db == nil {
		return ErrReadOnly
	}

	root, err := Delete(t.db, t.root, key)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Walk calls walkFn for each key value pair of the trie,
// in ascending key order.
func (t *Trie) Walk(walkFn WalkFunc) (err error) {
	return Walk(t.reader, t.root, walkFn)
}

// Prove returns a proof of the value, or of the absence, of the key.
func (t *Trie) Prove(key []byte) (proof [][]byte, err error) {
	return Prove(t.reader, t.root, key)
}

// Get returns the value for the key in the trie with the root hash
// given, or nil if the key is absent.
func Get(reader NodeReader, root common.Hash, key []byte) (value []byte, err error) {
	return lookup(reader, normalizeRoot(root), codec.KeyToNibbles(key))
}

// Insert inserts or updates the value for the key in the trie with the
// root hash given, staging the node writes in db, and returns the new
// root hash. An empty value deletes the key.
// On error, no node write is staged.
func Insert(db Database, root common.Hash, key, value []byte) (
	newRoot common.Hash, err error) {
	if len(value) == 0 {
		return Delete(db, root, key)
	}

	root = normalizeRoot(root)
	mutation := newMutation(db)
	newRootNode, mutated, err := mutation.insert(rootNode(root), nil,
		codec.KeyToNibbles(key), value)
	if err != nil {
		return common.Hash{}, err
	} else if !mutated {
		return root, nil
	}

	return mutation.commit(newRootNode)
}

// Delete removes the key from the trie with the root hash given,
// staging the node writes in db, and returns the new root hash.
// On error, no node write is staged.
func Delete(db Database, root common.Hash, key []byte) (
	newRoot common.Hash, err error) {
	root = normalizeRoot(root)
	mutation := newMutation(db)
	newRootNode, mutated, err := mutation.delete(rootNode(root), nil,
		codec.KeyToNibbles(key))
	if err != nil {
		return common.Hash{}, err
	} else if !mutated {
		return root, nil
	}

	return mutation.commit(newRootNode)
}
