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

// Package engine drives the calc pipeline: text is lexed, parsed and
// evaluated against a persistent interpreter.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/interp"
	"github.com/probechain/probe-calc/lang/parser"
)

// Run lexes, parses and evaluates text against in, stopping at the first
// error. On success the value may be nil (no value). On failure the error is
// a *diag.Error whose Kind names the failing stage and whose Error() is the
// message to show the user.
func Run(ctx context.Context, text string, in *interp.Interpreter) (interp.Value, error) {
	node, err := parser.ParseString(text)
	if err != nil {
		return nil, err
	}
	return in.Eval(ctx, node)
}

// Config holds the engine settings.
type Config struct {
	// CacheSize is the number of parsed inputs kept for reuse. Zero disables
	// the cache.
	CacheSize int

	Interpreter interp.Options
}

// DefaultConfig contains the default engine settings.
var DefaultConfig = Config{
	CacheSize: 256,
}

// Result contains the outcome of one Engine.Run call.
type Result struct {
	Value   interp.Value // nil for no value
	Steps   uint64
	Elapsed time.Duration
	Cached  bool // the AST came from the parse cache
}

// Engine is a session: one interpreter, a parse cache and a logger. It is not
// safe for concurrent use.
type Engine struct {
	id    string
	in    *interp.Interpreter
	cache *lru.Cache // nil when disabled
	log   log.FieldLogger
}

// New creates an Engine. A nil cfg selects DefaultConfig and a nil logger the
// logrus standard logger.
func New(cfg *Config, logger log.FieldLogger) (*Engine, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	id := uuid.New().String()
	e := &Engine{
		id:  id,
		in:  interp.New(&cfg.Interpreter),
		log: logger.WithField("session", id),
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// ID returns the session identifier attached to every log entry.
func (e *Engine) ID() string { return e.id }

// Interpreter returns the session interpreter.
func (e *Engine) Interpreter() *interp.Interpreter { return e.in }

// Reset drops every variable binding. Cached parses are kept since they do
// not depend on the environment.
func (e *Engine) Reset() {
	e.in.Env().Clear()
	e.log.Debug("Session variables cleared")
}

// CacheLen returns the number of cached parses.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// Parse returns the AST for text, consulting the parse cache first.
func (e *Engine) Parse(text string) (ast.Expr, bool, error) {
	if e.cache != nil {
		if node, ok := e.cache.Get(text); ok {
			return node.(ast.Expr), true, nil
		}
	}
	node, err := parser.ParseString(text)
	if err != nil {
		return nil, false, err
	}
	if e.cache != nil {
		e.cache.Add(text, node)
		e.log.WithFields(log.Fields{
			"input": text,
			"nodes": countNodes(node),
		}).Debug("Parse cache miss")
	}
	return node, false, nil
}

// Run evaluates text in the session. The returned Result is never nil; on
// failure it reports the steps consumed before the fault.
func (e *Engine) Run(ctx context.Context, text string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	node, cached, err := e.Parse(text)
	if err != nil {
		result.Elapsed = time.Since(start)
		e.log.WithFields(log.Fields{
			"input": text,
			"err":   err,
		}).Debug("Rejected input")
		return result, err
	}

	val, err := e.in.Eval(ctx, node)
	result.Value = val
	result.Steps = e.in.StepsUsed()
	result.Elapsed = time.Since(start)
	result.Cached = cached

	fields := log.Fields{
		"input":   text,
		"steps":   result.Steps,
		"elapsed": result.Elapsed,
		"cached":  cached,
	}
	if err != nil {
		fields["err"] = err
		e.log.WithFields(fields).Debug("Evaluation failed")
		return result, err
	}
	fields["value"] = interp.Format(val)
	e.log.WithFields(fields).Debug("Evaluated input")
	return result, nil
}

func countNodes(node ast.Expr) int {
	n := 0
	ast.Walk(node, func(ast.Expr) bool {
		n++
		return true
	})
	return n
}
