// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"fmt"

	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/lib/common"
	"github.com/qdm12/gotree"
)

// String returns the trie as a tree of fully loaded nodes.
// Nodes which cannot be loaded are shown as hash references.
func (t *Trie) String() string {
	if t.root == common.EmptyRootHash {
		return "empty trie"
	}

	root := loadAll(t.reader, rootNode(t.root), nil)
	tree := gotree.New("Trie root " + t.root.Short())
	tree.AppendNode(root.StringNode())
	return tree.String()
}

// loadAll returns a copy of the node given with all its
// descendant hash references replaced by the nodes loaded.
func loadAll(reader NodeReader, n node.Node, path []byte) node.Node {
	switch n := n.(type) {
	case node.HashRef:
		loaded, err := loadNode(reader, common.Hash(n), path)
		if err != nil {
			return n
		}
		return loadAll(reader, loaded, path)
	case *node.Extension:
		return &node.Extension{
			Path:  n.Path,
			Child: loadAll(reader, n.Child, codec.Concat(path, n.Path)),
		}
	case *node.Branch:
		branch := n.Copy()
		for i, child := range n.Children {
			if child == nil {
				continue
			}
			branch.Children[i] = loadAll(reader, child, codec.Concat(path, []byte{byte(i)}))
		}
		return branch
	case *node.Leaf:
		return n
	default:
		panic(fmt.Sprintf("node type not implemented: %T", n))
	}
}
