// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"

	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/lib/common"
)

// mutation buffers the node writes of a single insertion or deletion.
// The writes are only applied to the database once the whole
// mutation succeeded, so a failed mutation leaves the database as is.
//
// Each stored node replaced by the mutation is removed once, and each
// new node too large to be embedded in its parent is inserted once, so
// that the reference count of a stored node matches its number of
// occurrences in the trie.
type mutation struct {
	db       Database
	inserted [][]byte
	staged   map[common.Hash][]byte
	removed  []common.Hash
}

func newMutation(db Database) *mutation {
	return &mutation{
		db:     db,
		staged: make(map[common.Hash][]byte),
	}
}

func (m *mutation) load(hash common.Hash, path []byte) (n node.Node, err error) {
	encoding, ok := m.staged[hash]
	if !ok {
		return loadNode(m.db, hash, path)
	}

	n, err = node.Decode(encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding node %s: %w", hash, err)
	}
	return n, nil
}

// ref returns the reference to the node to place in its parent,
// which is the node itself if its encoding is short enough to be
// embedded, and a hash reference to the newly stored node otherwise.
func (m *mutation) ref(n node.Node) (reference node.Node, err error) {
	switch n.(type) {
	case nil, node.HashRef:
		return n, nil
	}

	encoding, err := node.Encode(n)
	if err != nil {
		return nil, fmt.Errorf("encoding node: %w", err)
	}

	if node.IsEmbeddable(encoding) {
		return n, nil
	}

	return node.HashRef(m.store(encoding)), nil
}

func (m *mutation) store(encoding []byte) (hash common.Hash) {
	hash = node.Hash(encoding)
	m.inserted = append(m.inserted, encoding)
	m.staged[hash] = encoding
	return hash
}

func (m *mutation) drop(hash common.Hash) {
	m.removed = append(m.removed, hash)
}

// commit stores the new root node, which is always stored by hash
// regardless of its encoding length, and applies the buffered
// writes to the database.
func (m *mutation) commit(newRoot node.Node) (root common.Hash, err error) {
	root = common.EmptyRootHash
	if newRoot != nil {
		encoding, err := node.Encode(newRoot)
		if err != nil {
			return common.Hash{}, fmt.Errorf("encoding root node: %w", err)
		}
		root = m.store(encoding)
	}

	for _, encoding := range m.inserted {
		m.db.Insert(encoding)
	}
	for _, hash := range m.removed {
		m.db.Remove(hash)
	}

	return root, nil
}

func (m *mutation) insert(parent node.Node, prefix, key, value []byte) (
	newParent node.Node, mutated bool, err error) {
	switch parent := parent.(type) {
	case nil:
		return &node.Leaf{Path: key, Value: value}, true, nil
	case node.HashRef:
		hash := common.Hash(parent)
		loaded, err := m.load(hash, prefix)
		if err != nil {
			return nil, false, err
		}

		newParent, mutated, err = m.insert(loaded, prefix, key, value)
		if err != nil {
			return nil, false, err
		} else if !mutated {
			return parent, false, nil
		}

		m.drop(hash)
		return newParent, true, nil
	case *node.Leaf:
		return m.insertInLeaf(parent, key, value)
	case *node.Extension:
		return m.insertInExtension(parent, prefix, key, value)
	case *node.Branch:
		return m.insertInBranch(parent, prefix, key, value)
	default:
		panic(fmt.Sprintf("node type not implemented: %T", parent))
	}
}

func (m *mutation) insertInLeaf(leaf *node.Leaf, key, value []byte) (
	newParent node.Node, mutated bool, err error) {
	if bytes.Equal(leaf.Path, key) {
		if bytes.Equal(leaf.Value, value) {
			return leaf, false, nil
		}
		return &node.Leaf{Path: leaf.Path, Value: value}, true, nil
	}

	commonPrefixLength := codec.CommonPrefixLength(leaf.Path, key)
	branch := &node.Branch{}

	if commonPrefixLength == len(leaf.Path) {
		branch.Value = leaf.Value
	} else {
		childIndex := leaf.Path[commonPrefixLength]
		branch.Children[childIndex], err = m.ref(&node.Leaf{
			Path:  leaf.Path[commonPrefixLength+1:],
			Value: leaf.Value,
		})
		if err != nil {
			return nil, false, err
		}
	}

	err = m.placeValue(branch, key[commonPrefixLength:], value)
	if err != nil {
		return nil, false, err
	}

	return m.extend(key[:commonPrefixLength], branch)
}

func (m *mutation) insertInExtension(extension *node.Extension, prefix, key, value []byte) (
	newParent node.Node, mutated bool, err error) {
	commonPrefixLength := codec.CommonPrefixLength(extension.Path, key)

	if commonPrefixLength == len(extension.Path) {
		childPrefix := codec.Concat(prefix, extension.Path)
		newChild, mutated, err := m.insert(extension.Child, childPrefix,
			key[commonPrefixLength:], value)
		if err != nil {
			return nil, false, err
		} else if !mutated {
			return extension, false, nil
		}

		childReference, err := m.ref(newChild)
		if err != nil {
			return nil, false, err
		}
		return &node.Extension{Path: extension.Path, Child: childReference}, true, nil
	}

	// The key diverges within the extension path.
	branch := &node.Branch{}
	childIndex := extension.Path[commonPrefixLength]
	if commonPrefixLength+1 == len(extension.Path) {
		branch.Children[childIndex] = extension.Child
	} else {
		branch.Children[childIndex], err = m.ref(&node.Extension{
			Path:  extension.Path[commonPrefixLength+1:],
			Child: extension.Child,
		})
		if err != nil {
			return nil, false, err
		}
	}

	err = m.placeValue(branch, key[commonPrefixLength:], value)
	if err != nil {
		return nil, false, err
	}

	return m.extend(key[:commonPrefixLength], branch)
}

func (m *mutation) insertInBranch(branch *node.Branch, prefix, key, value []byte) (
	newParent node.Node, mutated bool, err error) {
	if len(key) == 0 {
		if bytes.Equal(branch.Value, value) {
			return branch, false, nil
		}
		newBranch := branch.Copy()
		newBranch.Value = value
		return newBranch, true, nil
	}

	childIndex := key[0]
	childPrefix := codec.Concat(prefix, key[:1])
	newChild, mutated, err := m.insert(branch.Children[childIndex], childPrefix, key[1:], value)
	if err != nil {
		return nil, false, err
	} else if !mutated {
		return branch, false, nil
	}

	newBranch := branch.Copy()
	newBranch.Children[childIndex], err = m.ref(newChild)
	if err != nil {
		return nil, false, err
	}
	return newBranch, true, nil
}

// placeValue sets the value at the remaining key given in the fresh
// branch, either as the branch value or as a new leaf child.
func (m *mutation) placeValue(branch *node.Branch, key, value []byte) (err error) {
	if len(key) == 0 {
		branch.Value = value
		return nil
	}

	branch.Children[key[0]], err = m.ref(&node.Leaf{Path: key[1:], Value: value})
	return err
}

// extend returns the branch given behind an extension with the
// path given, or the branch itself if the path is empty.
func (m *mutation) extend(path []byte, branch *node.Branch) (
	newParent node.Node, mutated bool, err error) {
	if len(path) == 0 {
		return branch, true, nil
	}

	childReference, err := m.ref(branch)
	if err != nil {
		return nil, false, err
	}
	return &node.Extension{Path: path, Child: childReference}, true, nil
}

func (m *mutation) delete(parent node.Node, prefix, key []byte) (
	newParent node.Node, mutated bool, err error) {
	switch parent := parent.(type) {
	case nil:
		return nil, false, nil
	case node.HashRef:
		hash := common.Hash(parent)
		loaded, err := m.load(hash, prefix)
		if err != nil {
			return nil, false, err
		}

		newParent, mutated, err = m.delete(loaded, prefix, key)
		if err != nil {
			return nil, false, err
		} else if !mutated {
			return parent, false, nil
		}

		m.drop(hash)
		return newParent, true, nil
	case *node.Leaf:
		if bytes.Equal(parent.Path, key) {
			return nil, true, nil
		}
		return parent, false, nil
	case *node.Extension:
		if !bytes.HasPrefix(key, parent.Path) {
			return parent, false, nil
		}

		childPrefix := codec.Concat(prefix, parent.Path)
		newChild, mutated, err := m.delete(parent.Child, childPrefix, key[len(parent.Path):])
		if err != nil {
			return nil, false, err
		} else if !mutated {
			return parent, false, nil
		}

		return m.prependPath(parent.Path, newChild)
	case *node.Branch:
		return m.deleteFromBranch(parent, prefix, key)
	default:
		panic(fmt.Sprintf("node type not implemented: %T", parent))
	}
}

func (m *mutation) deleteFromBranch(branch *node.Branch, prefix, key []byte) (
	newParent node.Node, mutated bool, err error) {
	newBranch := branch.Copy()
	modifiedIndex := -1

	if len(key) == 0 {
		if branch.Value == nil {
			return branch, false, nil
		}
		newBranch.Value = nil
	} else {
		childIndex := key[0]
		childPrefix := codec.Concat(prefix, key[:1])
		newChild, mutated, err := m.delete(branch.Children[childIndex], childPrefix, key[1:])
		if err != nil {
			return nil, false, err
		} else if !mutated {
			return branch, false, nil
		}
		newBranch.Children[childIndex] = newChild
		modifiedIndex = int(childIndex)
	}

	return m.normalizeBranch(newBranch, prefix, modifiedIndex)
}

// normalizeBranch collapses a branch left with a single entry into
// the equivalent leaf or extension. The modified child, if any, is
// not referenced yet and gets referenced if the branch is kept.
func (m *mutation) normalizeBranch(branch *node.Branch, prefix []byte, modifiedIndex int) (
	newParent node.Node, mutated bool, err error) {
	childrenCount := branch.ChildrenCount()

	if childrenCount >= 2 || (childrenCount == 1 && branch.Value != nil) {
		if modifiedIndex >= 0 {
			branch.Children[modifiedIndex], err = m.ref(branch.Children[modifiedIndex])
			if err != nil {
				return nil, false, err
			}
		}
		return branch, true, nil
	}

	if childrenCount == 0 {
		if branch.Value == nil {
			return nil, true, nil
		}
		return &node.Leaf{Path: []byte{}, Value: branch.Value}, true, nil
	}

	var childIndex byte
	for i, child := range branch.Children {
		if child != nil {
			childIndex = byte(i)
			break
		}
	}

	child := branch.Children[childIndex]
	if hashRef, ok := child.(node.HashRef); ok {
		hash := common.Hash(hashRef)
		child, err = m.load(hash, codec.Concat(prefix, []byte{childIndex}))
		if err != nil {
			return nil, false, err
		}

		if _, isBranch := child.(*node.Branch); isBranch {
			return &node.Extension{Path: []byte{childIndex}, Child: hashRef}, true, nil
		}
		// The child leaf or extension gets merged in a new node.
		m.drop(hash)
	}

	return m.prependPath([]byte{childIndex}, child)
}

// prependPath returns the node equivalent to the child node given
// placed behind the path given, merging the path into the child
// if the child is a leaf or an extension.
func (m *mutation) prependPath(path []byte, child node.Node) (
	newParent node.Node, mutated bool, err error) {
	switch child := child.(type) {
	case nil:
		return nil, true, nil
	case *node.Leaf:
		return &node.Leaf{
			Path:  codec.Concat(path, child.Path),
			Value: child.Value,
		}, true, nil
	case *node.Extension:
		return &node.Extension{
			Path:  codec.Concat(path, child.Path),
			Child: child.Child,
		}, true, nil
	default:
		childReference, err := m.ref(child)
		if err != nil {
			return nil, false, err
		}
		return &node.Extension{Path: path, Child: childReference}, true, nil
	}
}
