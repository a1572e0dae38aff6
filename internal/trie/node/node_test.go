// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KindOf(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		node Node
		kind Kind
	}{
		"empty": {
			kind: EmptyKind,
		},
		"leaf": {
			node: &Leaf{},
			kind: LeafKind,
		},
		"extension": {
			node: &Extension{},
			kind: ExtensionKind,
		},
		"branch": {
			node: &Branch{},
			kind: BranchKind,
		},
		"hash_reference": {
			node: HashRef{},
			kind: HashRefKind,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.kind, KindOf(testCase.node))
		})
	}
}

func Test_Branch_ChildrenCount(t *testing.T) {
	t.Parallel()

	branch := &Branch{Children: [16]Node{1: &Leaf{}, 15: HashRef{}}}
	assert.Equal(t, 2, branch.ChildrenCount())

	branchCopy := branch.Copy()
	branchCopy.Children[1] = nil
	assert.Equal(t, 2, branch.ChildrenCount())
	assert.Equal(t, 1, branchCopy.ChildrenCount())
}

func Test_Branch_String(t *testing.T) {
	t.Parallel()

	branch := &Branch{
		Children: [16]Node{
			10: &Leaf{Path: []byte{1, 0xf}, Value: []byte{1}},
		},
		Value: []byte{2},
	}

	s := branch.String()
	assert.Contains(t, s, "Branch")
	assert.Contains(t, s, "Value: 0x02")
	assert.Contains(t, s, "Child a")
	assert.Contains(t, s, "Path: [1f]")
	assert.Contains(t, s, "Value: 0x01")
}
