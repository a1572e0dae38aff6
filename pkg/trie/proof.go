// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/internal/trie/nodestore"
	"github.com/kushti/mpt/lib/common"
)

// ErrInvalidProof is returned when a proof does not contain
// all the nodes needed to look up the key from the root.
var ErrInvalidProof = errors.New("invalid proof")

// recordingReader records the encodings of the nodes read.
type recordingReader struct {
	reader    NodeReader
	encodings [][]byte
}

func (r *recordingReader) Node(hash common.Hash) (encoding []byte, err error) {
	encoding, err = r.reader.Node(hash)
	if err != nil {
		return nil, err
	}
	r.encodings = append(r.encodings, encoding)
	return encoding, nil
}

// Prove returns the encodings of the nodes stored by hash on the path
// of the key in the trie with the root hash given, from the root down.
// The proof proves the value of the key, or its absence.
func Prove(reader NodeReader, root common.Hash, key []byte) (proof [][]byte, err error) {
	recorder := &recordingReader{reader: reader}
	_, err = lookup(recorder, normalizeRoot(root), codec.KeyToNibbles(key))
	if err != nil {
		return nil, err
	}
	return recorder.encodings, nil
}

// proofDatabase is an in-memory node reader built from proof nodes.
type proofDatabase map[common.Hash][]byte

func (p proofDatabase) Node(hash common.Hash) (encoding []byte, err error) {
	encoding, ok := p[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", nodestore.ErrNodeNotFound, hash)
	}
	return encoding, nil
}

// VerifyProof verifies the proof for the key against the root hash
// given and returns the proven value, which is nil if the proof
// proves the absence of the key.
func VerifyProof(root common.Hash, key []byte, proof [][]byte) (value []byte, err error) {
	database := make(proofDatabase, len(proof))
	for _, encoding := range proof {
		database[node.Hash(encoding)] = encoding
	}

	value, err = Get(database, root, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProof, err)
	}
	return value, nil
}
