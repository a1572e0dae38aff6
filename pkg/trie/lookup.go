// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"

	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/lib/common"
)

// lookup follows the nibble path from the root hash given
// and returns the value found, or nil.
func lookup(reader NodeReader, root common.Hash, nibbles []byte) (value []byte, err error) {
	current := rootNode(root)
	consumed := 0

	for {
		switch n := current.(type) {
		case nil:
			return nil, nil
		case node.HashRef:
			current, err = loadNode(reader, common.Hash(n), nibbles[:consumed])
			if err != nil {
				return nil, err
			}
		case *node.Leaf:
			if bytes.Equal(n.Path, nibbles[consumed:]) {
				return n.Value, nil
			}
			return nil, nil
		case *node.Extension:
			if !bytes.HasPrefix(nibbles[consumed:], n.Path) {
				return nil, nil
			}
			consumed += len(n.Path)
			current = n.Child
		case *node.Branch:
			if consumed == len(nibbles) {
				return n.Value, nil
			}
			current = n.Children[nibbles[consumed]]
			consumed++
		default:
			panic(fmt.Sprintf("node type not implemented: %T", n))
		}
	}
}
