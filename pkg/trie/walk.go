// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"fmt"

	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/lib/common"
)

// WalkFunc is called for each key value pair of a trie.
// Returning an error stops the walk.
type WalkFunc func(key, value []byte) error

// Walk calls walkFn for each key value pair of the trie with the
// root hash given, in ascending key order.
func Walk(reader NodeReader, root common.Hash, walkFn WalkFunc) (err error) {
	return walk(reader, rootNode(normalizeRoot(root)), nil, walkFn)
}

func walk(reader NodeReader, n node.Node, path []byte, walkFn WalkFunc) (err error) {
	switch n := n.(type) {
	case nil:
		return nil
	case node.HashRef:
		loaded, err := loadNode(reader, common.Hash(n), path)
		if err != nil {
			return err
		}
		return walk(reader, loaded, path, walkFn)
	case *node.Leaf:
		return callWalkFn(walkFn, codec.Concat(path, n.Path), n.Value)
	case *node.Extension:
		return walk(reader, n.Child, codec.Concat(path, n.Path), walkFn)
	case *node.Branch:
		if n.Value != nil {
			err = callWalkFn(walkFn, path, n.Value)
			if err != nil {
				return err
			}
		}
		for i, child := range n.Children {
			err = walk(reader, child, codec.Concat(path, []byte{byte(i)}), walkFn)
			if err != nil {
				return err
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("node type not implemented: %T", n))
	}
}

func callWalkFn(walkFn WalkFunc, path, value []byte) (err error) {
	key, err := codec.NibblesToKey(path)
	if err != nil {
		return fmt.Errorf("%w: key path %x", node.ErrCorruptNode, path)
	}
	return walkFn(key, value)
}
