// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/lib/common"
)

var (
	// ErrMissingNode is wrapped by MissingNodeError.
	ErrMissingNode = errors.New("missing trie node")
	// ErrReadOnly is returned when mutating a trie opened without
	// a writable node database.
	ErrReadOnly = errors.New("trie is read only")
)

// MissingNodeError is returned when a node referenced by hash
// cannot be found in the node database.
type MissingNodeError struct {
	NodeHash common.Hash
	// Path is the nibble path at which the node is referenced.
	Path []byte
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("%s %s (path %x)", ErrMissingNode, e.NodeHash, e.Path)
}

func (e *MissingNodeError) Unwrap() error {
	return ErrMissingNode
}
