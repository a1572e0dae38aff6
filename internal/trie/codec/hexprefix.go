// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

import (
	"errors"
	"fmt"
)

var ErrInvalidHexPrefix = errors.New("invalid hex prefix encoding")

const (
	flagOdd  byte = 1
	flagLeaf byte = 2
)

// HexPrefixEncode encodes a nibble path to bytes, prefixing it with a
// flag nibble set to 2*isLeaf + parity of the path length.
// An even length path is followed by a zero padding nibble so the
// path nibbles always start on a byte boundary.
func HexPrefixEncode(nibbles []byte, isLeaf bool) (encoded []byte) {
	var flag byte
	if isLeaf {
		flag = flagLeaf
	}

	encoded = make([]byte, len(nibbles)/2+1)
	if len(nibbles)%2 == 1 {
		flag |= flagOdd
		encoded[0] = flag<<4 | nibbles[0]
		nibbles = nibbles[1:]
	} else {
		encoded[0] = flag << 4
	}

	for i := 0; i < len(nibbles); i += 2 {
		encoded[i/2+1] = nibbles[i]<<4 | nibbles[i+1]
	}
	return encoded
}

// HexPrefixDecode decodes a hex prefix encoded path into its nibbles
// and leaf flag. It returns an error if the encoding is empty, if the
// flag nibble is greater than 3, or if the padding nibble of an even
// length path is not zero.
func HexPrefixDecode(encoded []byte) (nibbles []byte, isLeaf bool, err error) {
	if len(encoded) == 0 {
		return nil, false, fmt.Errorf("%w: empty encoding", ErrInvalidHexPrefix)
	}

	flag := encoded[0] >> 4
	if flag > flagLeaf|flagOdd {
		return nil, false, fmt.Errorf("%w: flag nibble %d", ErrInvalidHexPrefix, flag)
	}
	isLeaf = flag&flagLeaf != 0

	odd := flag&flagOdd != 0
	if !odd && encoded[0]&0x0f != 0 {
		return nil, false, fmt.Errorf("%w: non zero padding nibble %d",
			ErrInvalidHexPrefix, encoded[0]&0x0f)
	}

	length := 2 * (len(encoded) - 1)
	if odd {
		length++
	}

	nibbles = make([]byte, 0, length)
	if odd {
		nibbles = append(nibbles, encoded[0]&0x0f)
	}
	for _, b := range encoded[1:] {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	return nibbles, isLeaf, nil
}
