// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"sort"

	"github.com/kushti/mpt/internal/trie/codec"
	"github.com/kushti/mpt/internal/trie/node"
	"github.com/kushti/mpt/internal/trie/tracking"
	"github.com/kushti/mpt/lib/common"
	"golang.org/x/exp/maps"
)

// Diff returns the hashes of the nodes stored by the trie with root
// newRoot and not by the trie with root oldRoot as added, and the
// hashes of the nodes stored by the old trie and not by the new trie
// as removed. Both slices are sorted. Subtrees shared by both tries
// are not traversed.
func Diff(reader NodeReader, oldRoot, newRoot common.Hash) (
	added, removed []common.Hash, err error) {
	deltas, err := diff(reader, oldRoot, newRoot)
	if err != nil {
		return nil, nil, err
	}

	inserted, deleted := deltas.Get()
	return sortedHashes(inserted), sortedHashes(deleted), nil
}

// DiffDeltas returns the net change of the number of occurrences of
// each node stored by hash between the trie with root oldRoot and
// the trie with root newRoot, ordered by node hash. This is the
// reference count change committing the new trie on top of the old
// trie results in.
func DiffDeltas(reader NodeReader, oldRoot, newRoot common.Hash) (
	deltas []tracking.Delta, err error) {
	trackedDeltas, err := diff(reader, oldRoot, newRoot)
	if err != nil {
		return nil, err
	}
	return trackedDeltas.Sorted(), nil
}

func diff(reader NodeReader, oldRoot, newRoot common.Hash) (
	deltas *tracking.Deltas, err error) {
	differ := &differ{
		reader: reader,
		deltas: tracking.New(),
	}

	err = differ.diff(rootNode(normalizeRoot(oldRoot)),
		rootNode(normalizeRoot(newRoot)), nil)
	if err != nil {
		return nil, err
	}
	return differ.deltas, nil
}

type differ struct {
	reader NodeReader
	deltas *tracking.Deltas
}

func (d *differ) diff(oldNode, newNode node.Node, path []byte) (err error) {
	oldHashRef, oldIsHashRef := oldNode.(node.HashRef)
	newHashRef, newIsHashRef := newNode.(node.HashRef)
	if oldIsHashRef && newIsHashRef && oldHashRef == newHashRef {
		return nil
	}

	if oldIsHashRef {
		hash := common.Hash(oldHashRef)
		d.deltas.RecordDeleted(hash)
		oldNode, err = loadNode(d.reader, hash, path)
		if err != nil {
			return err
		}
	}

	if newIsHashRef {
		hash := common.Hash(newHashRef)
		d.deltas.RecordInserted(hash)
		newNode, err = loadNode(d.reader, hash, path)
		if err != nil {
			return err
		}
	}

	switch oldNode := oldNode.(type) {
	case *node.Branch:
		newBranch, ok := newNode.(*node.Branch)
		if !ok {
			break
		}
		for i := range oldNode.Children {
			childPath := codec.Concat(path, []byte{byte(i)})
			err = d.diff(oldNode.Children[i], newBranch.Children[i], childPath)
			if err != nil {
				return err
			}
		}
		return nil
	case *node.Extension:
		newExtension, ok := newNode.(*node.Extension)
		if !ok || !bytes.Equal(oldNode.Path, newExtension.Path) {
			break
		}
		childPath := codec.Concat(path, oldNode.Path)
		return d.diff(oldNode.Child, newExtension.Child, childPath)
	}

	err = d.collect(oldNode, path, d.deltas.RecordDeleted)
	if err != nil {
		return err
	}
	return d.collect(newNode, path, d.deltas.RecordInserted)
}

// collect records the hash of every node stored by hash
// in the subtree of the node given.
func (d *differ) collect(n node.Node, path []byte, record func(common.Hash)) (err error) {
	switch n := n.(type) {
	case node.HashRef:
		hash := common.Hash(n)
		record(hash)
		loaded, err := loadNode(d.reader, hash, path)
		if err != nil {
			return err
		}
		return d.collect(loaded, path, record)
	case *node.Extension:
		return d.collect(n.Child, codec.Concat(path, n.Path), record)
	case *node.Branch:
		for i, child := range n.Children {
			if child == nil {
				continue
			}
			err = d.collect(child, codec.Concat(path, []byte{byte(i)}), record)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedHashes(set map[common.Hash]struct{}) (hashes []common.Hash) {
	hashes = maps.Keys(set)
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})
	return hashes
}
