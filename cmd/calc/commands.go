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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/engine"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/parser"
)

var (
	recordFlag = cli.StringFlag{
		Name:  "record",
		Usage: "Write the session as a YAML script to this file",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Print the full node structure instead of the compact form",
	}

	runCommand = cli.Command{
		Action:    runFiles,
		Name:      "run",
		Usage:     "Evaluate every line of one or more files in a single session",
		ArgsUsage: "<file|->...",
		Flags:     []cli.Flag{recordFlag},
		Category:  "EVALUATION COMMANDS",
		Description: `
The run command evaluates each non-empty line of the given files in order,
sharing one set of variables. "-" reads standard input. Each line prints
"Result: <value>" or "Error: <message>" exactly like the console.`,
	}
	checkCommand = cli.Command{
		Action:    checkScripts,
		Name:      "check",
		Usage:     "Replay YAML session scripts and compare the outcomes",
		ArgsUsage: "<script.yaml>...",
		Category:  "EVALUATION COMMANDS",
		Description: `
The check command replays every script in its own session, concurrently, and
prints a summary. It exits with status 1 when any step does not match.`,
	}
	tokensCommand = cli.Command{
		Action:    showTokens,
		Name:      "tokens",
		Usage:     "Print the tokens of an expression",
		ArgsUsage: "<expression>",
		Category:  "INSPECTION COMMANDS",
	}
	astCommand = cli.Command{
		Action:    showAST,
		Name:      "ast",
		Usage:     "Print the parse tree of an expression",
		ArgsUsage: "<expression>",
		Flags:     []cli.Flag{dumpFlag},
		Category:  "INSPECTION COMMANDS",
	}
	versionCommand = cli.Command{
		Action:    printVersion,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Category:  "MISCELLANEOUS COMMANDS",
	}
)

// signalContext returns a context cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("usage: calc run <file|->...", 1)
	}
	cfg, err := currentConfig(ctx)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg.buildEngineConfig(), nil)
	if err != nil {
		return err
	}
	sigctx, cancel := signalContext()
	defer cancel()

	var rec *engine.Script
	if path := ctx.String(recordFlag.Name); path != "" {
		rec = &engine.Script{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	}
	for _, name := range ctx.Args() {
		if err := runFile(sigctx, eng, name, os.Stdout, rec); err != nil {
			return err
		}
	}
	if rec != nil {
		return engine.WriteScript(rec, ctx.String(recordFlag.Name))
	}
	return nil
}

func runFile(ctx context.Context, eng *engine.Engine, name string, out io.Writer, rec *engine.Script) error {
	var in io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	log.WithField("file", name).Debug("Running file")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, err := eng.Run(ctx, line)
		if rec != nil {
			rec.Record(line, res.Value, err)
		}
		switch {
		case err != nil:
			fmt.Fprintf(out, "Error: %s\n", err)
		case res.Value != nil:
			fmt.Fprintf(out, "Result: %s\n", res.Value)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func checkScripts(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("usage: calc check <script.yaml>...", 1)
	}
	cfg, err := currentConfig(ctx)
	if err != nil {
		return err
	}
	sigctx, cancel := signalContext()
	defer cancel()

	paths := ctx.Args()
	reports := make([]*engine.Report, len(paths))

	g, gctx := errgroup.WithContext(sigctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			script, err := engine.LoadScript(path)
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.buildEngineConfig(), log.WithField("script", script.Name))
			if err != nil {
				return err
			}
			report, err := script.Replay(gctx, eng)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !printReports(os.Stdout, reports) {
		return cli.NewExitError("check failed", 1)
	}
	return nil
}

// printReports writes the failing steps and a summary table, and reports
// whether every script passed.
func printReports(w io.Writer, reports []*engine.Report) bool {
	ok := true
	for _, r := range reports {
		for _, o := range r.Outcomes {
			if o.Pass {
				continue
			}
			want, got := o.Step.Want, o.Got
			if o.Step.Error != "" {
				want = "Error: " + o.Step.Error
			}
			if o.Err != "" {
				got = "Error: " + o.Err
			}
			fmt.Fprintf(w, "FAIL %s: %q: want %q, got %q\n", r.Name, o.Step.Input, want, got)
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Script", "Steps", "Passed", "Failed"})
	for _, r := range reports {
		table.Append([]string{
			r.Name,
			strconv.Itoa(len(r.Outcomes)),
			strconv.Itoa(r.Passed),
			strconv.Itoa(r.Failed),
		})
		ok = ok && r.OK()
	}
	table.Render()
	return ok
}

func showTokens(ctx *cli.Context) error {
	toks, err := lexer.Tokenize(strings.Join(ctx.Args(), " "))
	if err != nil {
		return err
	}
	console.RenderTokens(os.Stdout, toks)
	return nil
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func showAST(ctx *cli.Context) error {
	node, err := parser.ParseString(strings.Join(ctx.Args(), " "))
	if err != nil {
		return err
	}
	if ctx.Bool(dumpFlag.Name) {
		spewConfig.Fdump(os.Stdout, node)
		return nil
	}
	fmt.Println(node)
	return nil
}

func printVersion(ctx *cli.Context) error {
	fmt.Println("Calc")
	fmt.Println("Version:", version)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}
