// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"

	"github.com/kushti/mpt/internal/log"
	"github.com/urfave/cli"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "mptool"))

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "mptool"
	app.Usage = "Merkle Patricia trie state database tool"
	app.Flags = globalFlags
	app.Commands = []cli.Command{
		{
			Name:   "bench",
			Usage:  "Fill the trie with random keys, then commit blocks of additions and modifications and report the timing",
			Action: benchAction,
			Flags:  benchFlags,
		},
		{
			Name:   "check",
			Usage:  "Walk the trie of a generation and report its key count and missing nodes",
			Action: checkAction,
			Flags:  []cli.Flag{GenerationFlag},
		},
		{
			Name:   "get",
			Usage:  "Print the value of a key at a generation, with its Merkle proof",
			Action: getAction,
			Flags:  []cli.Flag{GenerationFlag, KeyFlag, ProofFlag},
		},
		{
			Name:   "prune",
			Usage:  "Prune all generations older than the given generation",
			Action: pruneAction,
			Flags:  []cli.Flag{UpToFlag},
		},
		{
			Name:   "export-config",
			Usage:  "Export the current configuration to a toml file",
			Action: exportConfigAction,
			Flags:  []cli.Flag{OutputFlag},
		},
	}
	return app
}
