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

// Package interp implements a tree-walking evaluator for the calc expression
// language.
//
// An Interpreter owns one flat Env that persists across Eval calls. Every node
// evaluation costs one step; Options.MaxSteps bounds a single Eval, and the
// context passed to Eval is checked on every WHILE iteration so a runaway loop
// can be stopped from outside.
package interp

import (
	"context"
	"errors"
	"fmt"

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/diag"
	"github.com/probechain/probe-calc/lang/token"
)

// ---- Error sentinels -------------------------------------------------------

// ErrDivisionByZero is returned by '/' when the divisor is zero, and by '**'
// when zero is raised to a negative power.
var ErrDivisionByZero = errors.New("interp: division by zero")

// ErrModuloByZero is returned by '%' when the divisor is zero.
var ErrModuloByZero = errors.New("interp: modulo by zero")

// ErrUndefinedVariable is returned when a variable is read before assignment.
var ErrUndefinedVariable = errors.New("interp: undefined variable")

// ErrIntegerOverflow is returned when an Int result does not fit in 64 bits.
var ErrIntegerOverflow = errors.New("interp: integer overflow")

// ErrFloatOverflow is returned when '**' on finite operands has no finite
// result.
var ErrFloatOverflow = errors.New("interp: float overflow")

// ErrMathDomain is returned when '**' has no real result.
var ErrMathDomain = errors.New("interp: math domain error")

// ErrNoValue is returned when an operator needs a number but an operand
// produced no value.
var ErrNoValue = errors.New("interp: operand has no value")

// ErrStepLimit is returned when an evaluation exhausts Options.MaxSteps.
var ErrStepLimit = errors.New("interp: step limit exceeded")

// ErrCancelled is returned when the evaluation context is done.
var ErrCancelled = errors.New("interp: evaluation cancelled")

// ErrNoRule is returned for a node or operator the evaluator does not handle.
var ErrNoRule = errors.New("interp: no evaluation rule")

// messages holds the user-facing text for each sentinel.
var messages = map[error]string{
	ErrDivisionByZero:  "Division by zero",
	ErrModuloByZero:    "Modulo by zero",
	ErrIntegerOverflow: "Integer overflow",
	ErrFloatOverflow:   "Numerical result out of range",
	ErrMathDomain:      "Math domain error",
	ErrStepLimit:       "Step limit exceeded",
	ErrCancelled:       "Evaluation cancelled",
}

// ---- Options ---------------------------------------------------------------

// Options configures an Interpreter.
type Options struct {
	// MaxSteps bounds the node evaluations of a single Eval. Zero means no
	// limit.
	MaxSteps uint64
}

// DefaultOptions is used when New is given nil.
var DefaultOptions = Options{MaxSteps: 0}

// ---- Interpreter -----------------------------------------------------------

// Interpreter evaluates ASTs against a persistent Env. It is not safe for
// concurrent use.
type Interpreter struct {
	env      *Env
	maxSteps uint64
	steps    uint64
}

// New creates an Interpreter with an empty environment.
func New(opts *Options) *Interpreter {
	if opts == nil {
		opts = &DefaultOptions
	}
	return &Interpreter{env: NewEnv(), maxSteps: opts.MaxSteps}
}

// Env returns the interpreter's variable environment.
func (in *Interpreter) Env() *Env { return in.env }

// StepsUsed returns the number of steps consumed by the most recent Eval.
func (in *Interpreter) StepsUsed() uint64 { return in.steps }

// SetMaxSteps changes the step budget for subsequent evaluations.
func (in *Interpreter) SetMaxSteps(n uint64) { in.maxSteps = n }

// Eval evaluates node and returns its value, or nil for no value. Runtime
// faults are returned as *diag.Error of kind diag.Runtime; assignments made
// before the fault are kept.
func (in *Interpreter) Eval(ctx context.Context, node ast.Expr) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.steps = 0
	return in.eval(ctx, node)
}

func (in *Interpreter) eval(ctx context.Context, node ast.Expr) (Value, error) {
	if in.maxSteps > 0 && in.steps >= in.maxSteps {
		return nil, fault(node, ErrStepLimit)
	}
	in.steps++

	switch n := node.(type) {
	case *ast.Number:
		if n.IsFloat() {
			return Float(n.Float), nil
		}
		return Int(n.Int), nil
	case *ast.BinaryOp:
		return in.evalBinary(ctx, n)
	case *ast.UnaryOp:
		return in.evalUnary(ctx, n)
	case *ast.Assign:
		val, err := in.eval(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		in.env.Set(n.Name, val)
		return val, nil
	case *ast.VarAccess:
		val, ok := in.env.Get(n.Name)
		if !ok {
			return nil, diag.Wrap(diag.Runtime, n.Pos(), ErrUndefinedVariable,
				fmt.Sprintf("Variable '%s' is not defined", n.Name))
		}
		return val, nil
	case *ast.If:
		return in.evalIf(ctx, n)
	case *ast.While:
		return in.evalWhile(ctx, n)
	}

	err := fault(node, ErrNoRule)
	err.Msg = fmt.Sprintf("No evaluation rule for %T", node)
	return nil, err
}

func (in *Interpreter) evalBinary(ctx context.Context, n *ast.BinaryOp) (Value, error) {
	left, err := in.eval(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(ctx, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.AND:
		if !Truthy(left) {
			return left, nil
		}
		return right, nil
	case token.OR:
		if Truthy(left) {
			return left, nil
		}
		return right, nil
	case token.EE:
		if left == nil || right == nil {
			return Bool(left == nil && right == nil), nil
		}
	}

	l, lok := toNum(left)
	r, rok := toNum(right)
	if !lok || !rok {
		return nil, diag.Wrap(diag.Runtime, n.Pos(), ErrNoValue,
			fmt.Sprintf("Unsupported operand types for %s: %s and %s", n.Op.Symbol(), TypeName(left), TypeName(right)))
	}

	switch n.Op {
	case token.EE, token.LT, token.GT:
		return compare(n.Op, l, r), nil
	}
	val, err := arith(n.Op, l, r)
	if err != nil {
		return nil, fault(n, err)
	}
	return val, nil
}

func (in *Interpreter) evalUnary(ctx context.Context, n *ast.UnaryOp) (Value, error) {
	val, err := in.eval(ctx, n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Op == token.NOT {
		return Bool(!Truthy(val)), nil
	}

	x, ok := toNum(val)
	if !ok {
		return nil, diag.Wrap(diag.Runtime, n.Pos(), ErrNoValue,
			fmt.Sprintf("Unsupported operand type for %s: %s", n.Op.Symbol(), TypeName(val)))
	}
	if n.Op != token.MINUS {
		return nil, fault(n, ErrNoRule)
	}
	neg, err := arith(token.MINUS, num{}, x)
	if err != nil {
		return nil, fault(n, err)
	}
	return neg, nil
}

func (in *Interpreter) evalIf(ctx context.Context, n *ast.If) (Value, error) {
	cond, err := in.eval(ctx, n.Cond)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return in.eval(ctx, n.Then)
	}
	if n.Else != nil {
		return in.eval(ctx, n.Else)
	}
	return nil, nil
}

func (in *Interpreter) evalWhile(ctx context.Context, n *ast.While) (Value, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, diag.Wrap(diag.Runtime, n.Pos(), fmt.Errorf("%w: %w", ErrCancelled, err), messages[ErrCancelled])
		}
		cond, err := in.eval(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		if !Truthy(cond) {
			return nil, nil
		}
		if _, err := in.eval(ctx, n.Body); err != nil {
			return nil, err
		}
	}
}

// fault wraps a sentinel in a runtime *diag.Error positioned at node.
func fault(node ast.Expr, sentinel error) *diag.Error {
	msg, ok := messages[sentinel]
	if !ok {
		msg = sentinel.Error()
	}
	var pos token.Position
	if node != nil {
		pos = node.Pos()
	}
	return diag.Wrap(diag.Runtime, pos, sentinel, msg)
}
