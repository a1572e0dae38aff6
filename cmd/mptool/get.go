// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kushti/mpt/pkg/trie"
	"github.com/urfave/cli"
)

func getAction(ctx *cli.Context) (err error) {
	key, err := hex.DecodeString(strings.TrimPrefix(ctx.String(KeyFlag.Name), "0x"))
	if err != nil {
		return fmt.Errorf("decoding key: %w", err)
	}

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

	value, err := reader.Get(key)
	if err != nil {
		return fmt.Errorf("getting value: %w", err)
	}
	fmt.Fprintf(ctx.App.Writer, "0x%x\n", value)

	if !ctx.Bool(ProofFlag.Name) {
		return nil
	}

	proof, err := reader.Prove(key)
	if err != nil {
		return fmt.Errorf("proving key: %w", err)
	}

	verified, err := trie.VerifyProof(reader.Hash(), key, proof)
	if err != nil {
		return fmt.Errorf("verifying proof: %w", err)
	}

	for _, encoding := range proof {
		fmt.Fprintf(ctx.App.Writer, "0x%x\n", encoding)
	}
	fmt.Fprintf(ctx.App.Writer, "proof of %d node(s) verified with value 0x%x\n", len(proof), verified)
	return nil
}
