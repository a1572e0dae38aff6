// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package node

import (
	"fmt"

	"github.com/kushti/mpt/lib/common"
	"github.com/qdm12/gotree"
)

func (l *Leaf) String() string {
	return l.StringNode().String()
}

// StringNode returns a gotree compatible node for String methods.
func (l *Leaf) StringNode() (stringNode *gotree.Node) {
	stringNode = gotree.New("Leaf")
	stringNode.Appendf("Path: %s", nibblesToString(l.Path))
	stringNode.Appendf("Value: %s", bytesToString(l.Value))
	return stringNode
}

func (e *Extension) String() string {
	return e.StringNode().String()
}

// StringNode returns a gotree compatible node for String methods.
func (e *Extension) StringNode() (stringNode *gotree.Node) {
	stringNode = gotree.New("Extension")
	stringNode.Appendf("Path: %s", nibblesToString(e.Path))
	stringNode.AppendNode(childStringNode(e.Child))
	return stringNode
}

func (b *Branch) String() string {
	return b.StringNode().String()
}

// StringNode returns a gotree compatible node for String methods.
func (b *Branch) StringNode() (stringNode *gotree.Node) {
	stringNode = gotree.New("Branch")
	stringNode.Appendf("Value: %s", bytesToString(b.Value))
	for i, child := range b.Children {
		if child == nil {
			continue
		}
		childNode := stringNode.Appendf("Child %x", i)
		childNode.AppendNode(child.StringNode())
	}
	return stringNode
}

func (h HashRef) String() string {
	return common.Hash(h).Short()
}

// StringNode returns a gotree compatible node for String methods.
func (h HashRef) StringNode() (stringNode *gotree.Node) {
	return gotree.New("HashRef: " + common.Hash(h).Short())
}

func childStringNode(child Node) *gotree.Node {
	if child == nil {
		return gotree.New("Empty")
	}
	return child.StringNode()
}

func nibblesToString(nibbles []byte) (s string) {
	if len(nibbles) == 0 {
		return "[]"
	}
	s = "["
	for _, nibble := range nibbles {
		s += fmt.Sprintf("%x", nibble)
	}
	return s + "]"
}

func bytesToString(b []byte) (s string) {
	switch {
	case b == nil:
		return "nil"
	case len(b) <= 20:
		return fmt.Sprintf("0x%x", b)
	default:
		return fmt.Sprintf("0x%x...%x", b[:8], b[len(b)-8:])
	}
}
