// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package codec converts byte keys to nibble paths and
// implements the hex-prefix encoding of nibble paths.
package codec

import (
	"errors"
	"fmt"
)

var ErrOddNibbles = errors.New("odd number of nibbles")

// KeyToNibbles converts a byte slice key into a slice of nibbles,
// each byte giving its high nibble first then its low nibble.
// A nil key gives a nil slice of nibbles.
func KeyToNibbles(key []byte) (nibbles []byte) {
	if len(key) == 0 {
		return nil
	}

	nibbles = make([]byte, 2*len(key))
	for i, b := range key {
		nibbles[2*i] = b >> 4
		nibbles[2*i+1] = b & 0x0f
	}
	return nibbles
}

// NibblesToKey converts a slice of nibbles into a byte slice key.
// It is the exact inverse of KeyToNibbles, and returns an
// error if the number of nibbles is odd.
func NibblesToKey(nibbles []byte) (key []byte, err error) {
	if len(nibbles)%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddNibbles, len(nibbles))
	}

	if len(nibbles) == 0 {
		return nil, nil
	}

	key = make([]byte, len(nibbles)/2)
	for i := range key {
		key[i] = nibbles[2*i]<<4 | nibbles[2*i+1]&0x0f
	}
	return key, nil
}

// CommonPrefixLength returns the length of the common
// prefix of the two nibble slices given.
func CommonPrefixLength(a, b []byte) (length int) {
	minLength := len(a)
	if len(b) < minLength {
		minLength = len(b)
	}

	for length = 0; length < minLength; length++ {
		if a[length] != b[length] {
			break
		}
	}
	return length
}

// Concat returns a newly allocated slice containing all the
// nibble slices given, in order.
func Concat(slices ...[]byte) (nibbles []byte) {
	size := 0
	for _, slice := range slices {
		size += len(slice)
	}

	nibbles = make([]byte, 0, size)
	for _, slice := range slices {
		nibbles = append(nibbles, slice...)
	}
	return nibbles
}
