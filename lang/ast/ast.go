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

// Package ast defines the Abstract Syntax Tree for the calc expression
// language.
//
// Design overview:
//
//   - The language has no statements: every node is an Expr.
//   - Expr is sealed by an unexported marker method, so the evaluator's type
//     switch covers a closed set of variants.
//   - Each node keeps the token that originated it so errors can reference a
//     column.
//   - Nodes own their children; the parser never shares a sub-tree between
//     two parents.
package ast

import (
	"bytes"

	"github.com/probechain/probe-calc/lang/token"
)

// Expr is the interface implemented by every AST node.
type Expr interface {
	// Pos returns the position of the token that originated the node.
	Pos() token.Position

	// String returns a parenthesised representation of the node suitable for
	// unit tests and debug output.
	String() string

	exprNode()
}

// ---------------------------------------------------------------------------
// Literals and variables
// ---------------------------------------------------------------------------

// Number is an integer or floating-point literal: 42, 3.14, 3.
type Number struct {
	Token token.Token // INT or FLOAT
	Int   int64       // value when Token.Type == token.INT
	Float float64     // value when Token.Type == token.FLOAT
}

// IsFloat reports whether the literal was written with a decimal point.
func (n *Number) IsFloat() bool { return n.Token.Type == token.FLOAT }

func (n *Number) exprNode()           {}
func (n *Number) Pos() token.Position { return n.Token.Pos }
func (n *Number) String() string      { return n.Token.Literal }

// VarAccess reads a variable: x.
type VarAccess struct {
	Token token.Token // the IDENTIFIER token
	Name  string
}

func (v *VarAccess) exprNode()           {}
func (v *VarAccess) Pos() token.Position { return v.Token.Pos }
func (v *VarAccess) String() string      { return v.Name }

// Assign binds the value of an expression to a name: x = expr.
type Assign struct {
	Token token.Token // the IDENTIFIER token
	Name  string
	Value Expr
}

func (a *Assign) exprNode()           {}
func (a *Assign) Pos() token.Position { return a.Token.Pos }
func (a *Assign) String() string {
	return "(" + a.Name + " = " + a.Value.String() + ")"
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// BinaryOp is an infix expression: x + y, x == y, x AND y.
type BinaryOp struct {
	Token token.Token // the operator token
	Left  Expr
	Op    token.Type // PLUS MINUS MUL DIV MOD POW EE LT GT AND OR
	Right Expr
}

func (b *BinaryOp) exprNode()           {}
func (b *BinaryOp) Pos() token.Position { return b.Token.Pos }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.Symbol() + " " + b.Right.String() + ")"
}

// UnaryOp is a prefix expression: -x, NOT x.
type UnaryOp struct {
	Token   token.Token // the operator token
	Op      token.Type  // MINUS or NOT
	Operand Expr
}

func (u *UnaryOp) exprNode()           {}
func (u *UnaryOp) Pos() token.Position { return u.Token.Pos }
func (u *UnaryOp) String() string {
	if u.Op == token.NOT {
		return "(NOT " + u.Operand.String() + ")"
	}
	return "(" + u.Op.Symbol() + u.Operand.String() + ")"
}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// If is a conditional expression: IF cond THEN expr [ELSE expr].
type If struct {
	Token token.Token // the IF keyword
	Cond  Expr
	Then  Expr
	Else  Expr // nil when there is no ELSE branch
}

func (i *If) exprNode()           {}
func (i *If) Pos() token.Position { return i.Token.Pos }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("(IF ")
	out.WriteString(i.Cond.String())
	out.WriteString(" THEN ")
	out.WriteString(i.Then.String())
	if i.Else != nil {
		out.WriteString(" ELSE ")
		out.WriteString(i.Else.String())
	}
	out.WriteString(")")
	return out.String()
}

// While is a loop expression: WHILE cond THEN body. It never produces a value.
type While struct {
	Token token.Token // the WHILE keyword
	Cond  Expr
	Body  Expr
}

func (w *While) exprNode()           {}
func (w *While) Pos() token.Position { return w.Token.Pos }
func (w *While) String() string {
	return "(WHILE " + w.Cond.String() + " THEN " + w.Body.String() + ")"
}

// Walk calls fn for node and every descendant in depth-first, left-to-right
// order. Returning false from fn skips the node's children.
func Walk(node Expr, fn func(Expr) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Assign:
		Walk(n.Value, fn)
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryOp:
		Walk(n.Operand, fn)
	case *If:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *While:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	}
}
