// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package node

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/lib/common"
)

// ErrCorruptNode is returned when an encoding does not decode
// to one of the legal node shapes.
var ErrCorruptNode = errors.New("corrupt node")

// Decode decodes a node from its canonical encoding.
// Children referenced by hash are decoded as HashRef and
// embedded children are decoded recursively.
// All errors returned wrap ErrCorruptNode.
func Decode(encoding []byte) (n Node, err error) {
	n, err = decode(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptNode, err)
	}
	return n, nil
}

func decode(encoding []byte) (n Node, err error) {
	if len(encoding) == 0 {
		return nil, errors.New("empty encoding")
	}

	elements, rest, err := rlp.SplitList(encoding)
	if err != nil {
		return nil, fmt.Errorf("splitting list: %w", err)
	} else if len(rest) > 0 {
		return nil, fmt.Errorf("%d trailing bytes after list", len(rest))
	}

	count, err := rlp.CountValues(elements)
	if err != nil {
		return nil, fmt.Errorf("counting list elements: %w", err)
	}

	switch count {
	case 2:
		return decodeShort(elements)
	case ChildrenCapacity + 1:
		return decodeBranch(elements)
	default:
		return nil, fmt.Errorf("invalid number of list elements: %d", count)
	}
}

func decodeShort(elements []byte) (n Node, err error) {
	encodedPath, rest, err := rlp.SplitString(elements)
	if err != nil {
		return nil, fmt.Errorf("decoding path: %w", err)
	}

	path, isLeaf, err := codec.HexPrefixDecode(encodedPath)
	if err != nil {
		return nil, fmt.Errorf("decoding path: %w", err)
	}

	if isLeaf {
		value, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("decoding leaf value: %w", err)
		} else if len(value) == 0 {
			return nil, errors.New("leaf has an empty value")
		}
		return &Leaf{Path: path, Value: value}, nil
	}

	if len(path) == 0 {
		return nil, errors.New("extension has an empty path")
	}

	child, _, err := decodeChildReference(rest)
	if err != nil {
		return nil, fmt.Errorf("decoding extension child: %w", err)
	}

	switch child.(type) {
	case HashRef, *Branch:
	default:
		return nil, fmt.Errorf("extension child must be a branch, got %s", KindOf(child))
	}

	return &Extension{Path: path, Child: child}, nil
}

func decodeBranch(elements []byte) (n Node, err error) {
	branch := new(Branch)
	rest := elements
	for i := 0; i < ChildrenCapacity; i++ {
		branch.Children[i], rest, err = decodeChildReference(rest)
		if err != nil {
			return nil, fmt.Errorf("decoding branch child at index %d: %w", i, err)
		}
	}

	value, _, err := rlp.SplitString(rest)
	if err != nil {
		return nil, fmt.Errorf("decoding branch value: %w", err)
	}
	if len(value) > 0 {
		branch.Value = value
	}

	childrenCount := branch.ChildrenCount()
	if childrenCount == 0 || (childrenCount == 1 && branch.Value == nil) {
		return nil, fmt.Errorf("degenerate branch with %d children", childrenCount)
	}

	return branch, nil
}

func decodeChildReference(buffer []byte) (child Node, rest []byte, err error) {
	kind, content, rest, err := rlp.Split(buffer)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case kind == rlp.List:
		// embedded node
		size := len(buffer) - len(rest)
		if !IsEmbeddable(buffer[:size]) {
			return nil, nil, fmt.Errorf("embedded node of %d bytes is too large", size)
		}
		child, err = decode(buffer[:size])
		if err != nil {
			return nil, nil, fmt.Errorf("decoding embedded node: %w", err)
		}
		return child, rest, nil
	case kind == rlp.String && len(content) == 0:
		return nil, rest, nil
	case kind == rlp.String && len(content) == common.HashLength:
		return HashRef(common.NewHash(content)), rest, nil
	default:
		return nil, nil, fmt.Errorf("invalid child reference of %d bytes", len(content))
	}
}
