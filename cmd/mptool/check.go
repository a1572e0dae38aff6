// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"

	"github.com/kushti/mpt/pkg/trie"
	"github.com/urfave/cli"
)

var ErrTrieIncomplete = errors.New("trie is incomplete")

func checkAction(ctx *cli.Context) (err error) {
	stateDB, err := setup(ctx, nil)
	if err != nil {
		return err
	}
	defer closeStateDB(stateDB, &err)

	generation := resolveGeneration(stateDB, ctx.Int64(GenerationFlag.Name))
	reader, unpin, err := stateDB.Reader(generation)
	if err != nil {
		return err
	}
	defer unpin()

	keys := 0
	err = reader.Walk(func(_, _ []byte) error {
		keys++
		return nil
	})

	var missingNodeErr *trie.MissingNodeError
	switch {
	case errors.As(err, &missingNodeErr):
		fmt.Fprintf(ctx.App.Writer, "generation %d root %s: node %s missing at path %x after %d key(s)\n",
			generation, reader.Hash(), missingNodeErr.NodeHash, missingNodeErr.Path, keys)
		return fmt.Errorf("%w: %s", ErrTrieIncomplete, err)
	case err != nil:
		return fmt.Errorf("walking trie: %w", err)
	}

	fmt.Fprintf(ctx.App.Writer, "generation %d root %s: %d key(s)\n",
		generation, reader.Hash(), keys)
	return nil
}
