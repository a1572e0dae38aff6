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

var ErrEncodeHashRef = errors.New("cannot encode a hash reference on its own")

// Encode returns the canonical RLP encoding of the node.
// A leaf or an extension encodes as the two elements list
// [hex prefix path, value or child reference] and a branch
// encodes as the 17 elements list of its 16 child references
// followed by its value. A child reference is the empty string
// for an empty child, the child encoding itself if it is shorter
// than 32 bytes, and the 32 bytes hash of the child encoding otherwise.
func Encode(n Node) (encoding []byte, err error) {
	switch n := n.(type) {
	case nil:
		return []byte{0x80}, nil
	case *Leaf:
		return rlp.EncodeToBytes([]interface{}{
			codec.HexPrefixEncode(n.Path, true),
			n.Value,
		})
	case *Extension:
		childReference, err := encodeChildReference(n.Child)
		if err != nil {
			return nil, fmt.Errorf("encoding extension child: %w", err)
		}
		return rlp.EncodeToBytes([]interface{}{
			codec.HexPrefixEncode(n.Path, false),
			childReference,
		})
	case *Branch:
		const listLength = ChildrenCapacity + 1
		items := make([]interface{}, listLength)
		for i, child := range n.Children {
			items[i], err = encodeChildReference(child)
			if err != nil {
				return nil, fmt.Errorf("encoding branch child at index %d: %w", i, err)
			}
		}
		value := n.Value
		if value == nil {
			value = []byte{}
		}
		items[ChildrenCapacity] = value
		return rlp.EncodeToBytes(items)
	case HashRef:
		return nil, fmt.Errorf("%w: %s", ErrEncodeHashRef, n)
	default:
		panic(fmt.Sprintf("node type not implemented: %T", n))
	}
}

func encodeChildReference(child Node) (reference interface{}, err error) {
	switch child := child.(type) {
	case nil:
		return []byte{}, nil
	case HashRef:
		return child[:], nil
	default:
		encoding, err := Encode(child)
		if err != nil {
			return nil, err
		}
		if IsEmbeddable(encoding) {
			return rlp.RawValue(encoding), nil
		}
		hash := Hash(encoding)
		return hash[:], nil
	}
}

// IsEmbeddable returns true if the node encoding is short enough
// to be embedded in its parent instead of being referenced by hash.
func IsEmbeddable(encoding []byte) bool {
	return len(encoding) < common.HashLength
}
