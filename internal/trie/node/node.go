// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package node defines the trie node variants and their
// canonical RLP encoding.
package node

import (
	"fmt"

	"github.com/kushti/mpt/lib/common"
	"github.com/qdm12/gotree"
)

// Node is a node in the trie. A nil Node is the empty node.
type Node interface {
	Kind() Kind
	String() string
	StringNode() (stringNode *gotree.Node)
}

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Extension)(nil)
	_ Node = (*Branch)(nil)
	_ Node = HashRef{}
)

// ChildrenCapacity is the number of children slots of a branch.
const ChildrenCapacity = 16

// Leaf is a leaf in the trie.
type Leaf struct {
	// Path is the remaining key path, in nibbles.
	Path  []byte
	Value []byte
}

// Extension is a node sharing a non empty path prefix
// in front of a single branch child.
type Extension struct {
	// Path is the shared key path, in nibbles.
	Path  []byte
	Child Node
}

// Branch is a node with up to 16 children, one per nibble,
// and an optional value for the key ending at the branch.
type Branch struct {
	Children [ChildrenCapacity]Node
	Value    []byte
}

// HashRef is a reference to a node stored under its hash,
// which is not yet loaded from the store.
type HashRef common.Hash

// Kind returns LeafKind.
func (l *Leaf) Kind() Kind { return LeafKind }

// Kind returns ExtensionKind.
func (e *Extension) Kind() Kind { return ExtensionKind }

// Kind returns BranchKind.
func (b *Branch) Kind() Kind { return BranchKind }

// Kind returns HashRefKind.
func (h HashRef) Kind() Kind { return HashRefKind }

// ChildrenCount returns the number of non empty children of the branch.
func (b *Branch) ChildrenCount() (count int) {
	for _, child := range b.Children {
		if child != nil {
			count++
		}
	}
	return count
}

// Copy returns a shallow copy of the branch, children nodes
// and value byte slice being shared with the original branch.
func (b *Branch) Copy() *Branch {
	branchCopy := *b
	return &branchCopy
}

// KindOf returns the kind of a node, EmptyKind for a nil node.
func KindOf(n Node) Kind {
	if n == nil {
		return EmptyKind
	}
	return n.Kind()
}

// Kind is the kind of a node.
type Kind uint8

const (
	EmptyKind Kind = iota
	LeafKind
	ExtensionKind
	BranchKind
	HashRefKind
)

func (k Kind) String() string {
	switch k {
	case EmptyKind:
		return "Empty"
	case LeafKind:
		return "Leaf"
	case ExtensionKind:
		return "Extension"
	case BranchKind:
		return "Branch"
	case HashRefKind:
		return "HashRef"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
