// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func pruneAction(ctx *cli.Context) (err error) {
	stateDB, err := setup(ctx, nil)
	if err != nil {
		return err
	}
	defer closeStateDB(stateDB, &err)

	upTo := resolveGeneration(stateDB, ctx.Int64(UpToFlag.Name))
	err = stateDB.Prune(upTo)
	if err != nil {
		return fmt.Errorf("pruning: %w", err)
	}

	fmt.Fprintf(ctx.App.Writer, "base generation is now %d\n", stateDB.Base())
	return nil
}

func exportConfigAction(ctx *cli.Context) (err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	path := ctx.String(OutputFlag.Name)
	err = cfg.Write(path)
	if err != nil {
		return fmt.Errorf("exporting configuration: %w", err)
	}

	fmt.Fprintf(ctx.App.Writer, "configuration written to %s\n", path)
	return nil
}
