// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package node

import (
	"github.com/kushti/mpt/lib/common"
)

// Hash returns the keccak256 digest of a node encoding.
func Hash(encoding []byte) common.Hash {
	return common.Keccak256(encoding)
}

// EncodeAndHash returns the encoding of the node and its hash.
func EncodeAndHash(n Node) (encoding []byte, hash common.Hash, err error) {
	encoding, err = Encode(n)
	if err != nil {
		return nil, hash, err
	}
	return encoding, Hash(encoding), nil
}
