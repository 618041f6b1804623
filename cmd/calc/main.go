// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// calc is the command-line front end of the calc expression language.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/engine"
)

const version = "0.1.0"

var (
	maxStepsFlag = cli.Uint64Flag{
		Name:  "maxsteps",
		Usage: "Maximum evaluation steps per expression (0 = unlimited)",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cachesize",
		Usage: "Number of parsed expressions to cache (0 = disabled)",
	}
	historyFlag = cli.StringFlag{
		Name:  "history",
		Usage: "Console history file",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "nocolor",
		Usage: "Disable coloured console output",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=panic, 1=fatal, 2=error, 3=warn, 4=info, 5=debug, 6=trace",
		Value: 3,
	}
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "calc"
	app.Usage = "the calc expression language"
	app.Version = version
	app.Action = calcConsole
	app.HideVersion = true
	app.Flags = []cli.Flag{
		configFileFlag,
		maxStepsFlag,
		cacheSizeFlag,
		historyFlag,
		noColorFlag,
		verbosityFlag,
	}
	app.Commands = []cli.Command{
		runCommand,
		checkCommand,
		tokensCommand,
		astCommand,
		dumpConfigCommand,
		versionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Before = prepare
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// calcConsole is the main entry point into the system if no special subcommand
// is run. It starts an interactive session on the terminal.
func calcConsole(ctx *cli.Context) error {
	if args := ctx.Args(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}
	cfg, err := currentConfig(ctx)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg.buildEngineConfig(), nil)
	if err != nil {
		return err
	}

	var prompter console.Prompter
	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompter = console.NewTerminalPrompter()
	} else {
		prompter = console.NewReaderPrompter(os.Stdin)
	}
	defer prompter.Close()

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		cfg.Console.Color = false
	}
	c := console.New(cfg.Console, eng, prompter, colorable.NewColorableStdout())
	c.Welcome()
	return c.Interactive(context.Background())
}
