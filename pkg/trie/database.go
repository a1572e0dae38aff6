// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/lib/common"
)

// NodeReader reads node encodings by hash. It must return an error
// wrapping nodestore.ErrNodeNotFound for unknown hashes.
type NodeReader interface {
	Node(hash common.Hash) (encoding []byte, err error)
}

// Database is a node database staging node writes, such as
// the overlay.Overlay.
type Database interface {
	NodeReader
	Insert(encoding []byte) (hash common.Hash)
	Remove(hash common.Hash)
}

// rootNode returns the node referenced by the root hash given,
// which is nil for the empty root hash.
func rootNode(root common.Hash) node.Node {
	if root == common.EmptyRootHash || root == common.EmptyHash {
		return nil
	}
	return node.HashRef(root)
}

// loadNode loads and decodes the node stored under the hash given,
// which is referenced at the nibble path given.
func loadNode(reader NodeReader, hash common.Hash, path []byte) (
	n node.Node, err error) {
	encoding, err := reader.Node(hash)
	if err != nil {
		if errors.Is(err, nodestore.ErrNodeNotFound) {
			return nil, &MissingNodeError{
				NodeHash: hash,
				Path:     append([]byte{}, path...),
			}
		}
		return nil, fmt.Errorf("reading node %s: %w", hash, err)
	}

	n, err = node.Decode(encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding node %s: %w", hash, err)
	}

	return n, nil
}
