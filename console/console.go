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

// Package console implements the interactive read-eval-print loop of calc.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"

	"github.com/probechain/probe-calc/engine"
	"github.com/probechain/probe-calc/lang/diag"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/parser"
	"github.com/probechain/probe-calc/lang/token"
)

const (
	banner   = "Simple Interpreter - Type 'exit' to quit"
	farewell = "Goodbye!"

	// maxHistoryLines bounds the persisted history; older lines are dropped.
	maxHistoryLines = 1000

	helpText = `Enter an expression to evaluate it, or one of:
  :vars           list session variables
  :reset          clear session variables
  :tokens <expr>  show the tokens of an expression
  :ast <expr>     show the parse tree of an expression
  :help           show this text
  exit            leave the console
`
)

// Config holds the console settings.
type Config struct {
	Prompt      string
	HistoryFile string // empty disables persisted history
	Color       bool
	Verbose     bool // print error kind and column
}

// DefaultConfig contains the default console settings.
var DefaultConfig = Config{
	Prompt: "calc > ",
	Color:  true,
}

// Console is an interactive session bound to one engine.
type Console struct {
	cfg      Config
	eng      *engine.Engine
	prompter Prompter
	out      io.Writer
	history  []string

	resultColor *color.Color
	errorColor  *color.Color
}

// New creates a console. History is loaded from cfg.HistoryFile when the file
// exists.
func New(cfg Config, eng *engine.Engine, prompter Prompter, out io.Writer) *Console {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultConfig.Prompt
	}
	c := &Console{
		cfg:         cfg,
		eng:         eng,
		prompter:    prompter,
		out:         out,
		resultColor: color.New(color.FgGreen),
		errorColor:  color.New(color.FgRed),
	}
	if cfg.Color {
		c.resultColor.EnableColor()
		c.errorColor.EnableColor()
	} else {
		c.resultColor.DisableColor()
		c.errorColor.DisableColor()
	}
	if cfg.HistoryFile != "" {
		if content, err := os.ReadFile(cfg.HistoryFile); err == nil {
			if trimmed := strings.TrimSpace(string(content)); trimmed != "" {
				c.history = strings.Split(trimmed, "\n")
				prompter.SetHistory(c.history)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			log.WithField("path", cfg.HistoryFile).Warn("Failed to load console history: ", err)
		}
	}
	prompter.SetWordCompleter(c.complete)
	return c
}

// Welcome prints the banner.
func (c *Console) Welcome() {
	fmt.Fprintln(c.out, banner)
}

// Interactive reads and evaluates lines until "exit", end of input or ctx is
// done. An interrupt while an expression is running cancels that expression
// only.
func (c *Console) Interactive(ctx context.Context) error {
	defer c.saveHistory()
	for {
		if ctx.Err() != nil {
			break
		}
		line, err := c.prompter.PromptInput(c.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			fmt.Fprintln(c.out)
			break
		}
		evalCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		done := c.Evaluate(evalCtx, line)
		stop()
		if done {
			break
		}
	}
	fmt.Fprintln(c.out, farewell)
	return nil
}

// Evaluate handles one input line and reports whether the session should end.
func (c *Console) Evaluate(ctx context.Context, line string) (exit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	if strings.EqualFold(input, "exit") {
		return true
	}
	c.prompter.AppendHistory(line)
	c.history = append(c.history, line)

	if strings.HasPrefix(input, ":") {
		c.command(input)
		return false
	}

	res, err := c.eng.Run(ctx, line)
	if err != nil {
		c.printError(err)
		return false
	}
	if res.Value != nil {
		c.resultColor.Fprintf(c.out, "Result: %s\n", res.Value)
	}
	return false
}

// command runs a ':'-prefixed console command.
func (c *Console) command(input string) {
	name, arg := input, ""
	if i := strings.IndexAny(input, " \t"); i >= 0 {
		name, arg = input[:i], strings.TrimSpace(input[i+1:])
	}

	switch strings.ToLower(name) {
	case ":help":
		fmt.Fprint(c.out, helpText)

	case ":vars":
		RenderVars(c.out, c.eng.Interpreter().Env())

	case ":reset":
		c.eng.Reset()
		fmt.Fprintln(c.out, "variables cleared.")

	case ":tokens":
		toks, err := lexer.Tokenize(arg)
		if err != nil {
			c.printError(err)
			return
		}
		RenderTokens(c.out, toks)

	case ":ast":
		node, err := parser.ParseString(arg)
		if err != nil {
			c.printError(err)
			return
		}
		fmt.Fprintln(c.out, node)

	default:
		fmt.Fprintln(c.out, "unknown command. Type :help for help.")
	}
}

func (c *Console) printError(err error) {
	msg := err.Error()
	var de *diag.Error
	if c.cfg.Verbose && errors.As(err, &de) {
		msg = de.Detail()
	}
	c.errorColor.Fprintf(c.out, "Error: %s\n", msg)
}

// complete offers keywords and session variables for the word under the
// cursor.
func (c *Console) complete(line string, pos int) (string, []string, string) {
	if pos > len(line) {
		pos = len(line)
	}
	head, tail := line[:pos], line[pos:]
	start := strings.LastIndexFunc(head, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) + 1
	prefix := head[start:]
	if prefix == "" {
		return head, nil, tail
	}

	var matches []string
	candidates := append(token.Keywords(), c.eng.Interpreter().Env().Names()...)
	for _, word := range candidates {
		if strings.HasPrefix(word, prefix) {
			matches = append(matches, word)
		}
	}
	sort.Strings(matches)
	return head[:start], matches, tail
}

func (c *Console) saveHistory() {
	if c.cfg.HistoryFile == "" || len(c.history) == 0 {
		return
	}
	lines := c.history
	if len(lines) > maxHistoryLines {
		lines = lines[len(lines)-maxHistoryLines:]
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(c.cfg.HistoryFile, []byte(content), 0600); err != nil {
		log.WithField("path", c.cfg.HistoryFile).Warn("Failed to save console history: ", err)
	}
}
