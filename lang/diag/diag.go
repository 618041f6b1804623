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

// Package diag holds the error type shared by every stage of the calc
// pipeline. Lexer, parser and interpreter all report a *Error, so callers can
// tell stages apart by Kind while printing Error() verbatim.
package diag

import (
	"errors"
	"fmt"

	"github.com/probechain/probe-calc/lang/token"
)

// Kind identifies the pipeline stage that produced an error.
type Kind uint8

const (
	Lexical Kind = iota + 1
	Syntax
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Runtime:
		return "runtime"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Error is a positioned pipeline error. Error() returns Msg unchanged.
type Error struct {
	Kind Kind
	Pos  token.Position // zero when the stage has no source position
	Msg  string
	Err  error // wrapped cause or sentinel, may be nil
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Detail renders the error with its kind and column for verbose output.
func (e *Error) Detail() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error whose message is msg and whose cause is err.
func Wrap(kind Kind, pos token.Position, err error, msg string) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
