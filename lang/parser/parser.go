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

// Package parser implements a recursive-descent parser for the calc
// expression language.
//
// Design overview:
//
//   - One function per precedence level, lowest to highest:
//     expr, comp_expr, arith_expr, term, factor, power, atom.
//   - Each level lists its operators in a set; parseBinary folds a
//     left-associative chain over that set.
//   - AND/OR and ** recurse into their own level on the right-hand side and
//     are therefore right-associative.
//   - The first error aborts the parse. Every error is a *diag.Error with a
//     reason; IF and WHILE clauses wrap the inner failure in a message naming
//     the construct.
package parser

import (
	"errors"
	"math"
	"strconv"

	mapset "github.com/deckarep/golang-set"

	"github.com/probechain/probe-calc/lang/ast"
	"github.com/probechain/probe-calc/lang/diag"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/token"
)

// ErrInvalidSyntax is wrapped by syntax errors that have no construct-specific
// cause.
var ErrInvalidSyntax = errors.New("Invalid Syntax")

// ---------------------------------------------------------------------------
// Operator sets per precedence level
// ---------------------------------------------------------------------------

var (
	additiveOps       = newOpSet(token.PLUS, token.MINUS)
	comparisonOps     = newOpSet(token.EE, token.LT, token.GT)
	logicalOps        = newOpSet(token.AND, token.OR)
	multiplicativeOps = newOpSet(token.MUL, token.DIV, token.MOD)
	powerOps          = newOpSet(token.POW)
	unaryOps          = newOpSet(token.MINUS, token.NOT)
)

func newOpSet(types ...token.Type) mapset.Set {
	items := make([]interface{}, len(types))
	for i, t := range types {
		items[i] = t
	}
	return mapset.NewSetFromSlice(items)
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// Parser holds the mutable state for a single parse run.
type Parser struct {
	tokens []token.Token
	idx    int
	cur    token.Token // current token
}

// newParser initialises a Parser over tokens. A missing trailing EOF is
// supplied so the parser never runs off the end of the slice.
func newParser(tokens []token.Token) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != token.EOF {
		var pos token.Position
		if n > 0 {
			pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], token.Token{Type: token.EOF, Pos: pos})
	}
	return &Parser{tokens: tokens, cur: tokens[0]}
}

// Parse builds the AST for one complete expression. On failure the returned
// Expr is nil and the error is a *diag.Error of kind diag.Syntax.
func Parse(tokens []token.Token) (ast.Expr, error) {
	p := newParser(tokens)
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.EOF) {
		return nil, diag.Errorf(diag.Syntax, p.cur.Pos, "Expected end of expression, got %s", p.cur.Type)
	}
	return node, nil
}

// ParseString tokenises text and parses the result. Lexical errors are
// returned unchanged.
func ParseString(text string) (ast.Expr, error) {
	toks, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

// advance moves to the next token. The final EOF token is sticky.
func (p *Parser) advance() {
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	p.cur = p.tokens[p.idx]
}

// curIs returns true if the current token has the given type.
func (p *Parser) curIs(typ token.Type) bool { return p.cur.Type == typ }

// invalidf records a generic syntax error at the current token.
func (p *Parser) invalidf(format string, args ...interface{}) error {
	err := diag.Errorf(diag.Syntax, p.cur.Pos, "Invalid Syntax: "+format, args...)
	err.Err = ErrInvalidSyntax
	return err
}

// wrap attributes an inner failure to the construct that contains it. The
// position of the inner error is kept when it has one.
func wrap(cause error, fallback token.Position, msg string) error {
	pos := fallback
	var de *diag.Error
	if errors.As(cause, &de) && de.Pos.IsValid() {
		pos = de.Pos
	}
	return diag.Wrap(diag.Syntax, pos, cause, msg)
}

// ---------------------------------------------------------------------------
// Precedence ladder
// ---------------------------------------------------------------------------

// parseBinary parses operand (op right)* for every op in ops, folding the
// chain to the left.
func (p *Parser) parseBinary(ops mapset.Set, operand, right func() (ast.Expr, error)) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for ops.Contains(p.cur.Type) {
		tok := p.cur
		p.advance()
		rhs, err := right()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Token: tok, Left: left, Op: tok.Type, Right: rhs}
	}
	return left, nil
}

// expr = comp_expr { ( "+" | "-" ) comp_expr } ;
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(additiveOps, p.parseCompExpr, p.parseCompExpr)
}

// comp_expr = arith_expr { ( "==" | "<" | ">" ) arith_expr } [ ( AND | OR ) comp_expr ] ;
func (p *Parser) parseCompExpr() (ast.Expr, error) {
	node, err := p.parseBinary(comparisonOps, p.parseArithExpr, p.parseArithExpr)
	if err != nil {
		return nil, err
	}
	if logicalOps.Contains(p.cur.Type) {
		tok := p.cur
		p.advance()
		rhs, err := p.parseCompExpr()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryOp{Token: tok, Left: node, Op: tok.Type, Right: rhs}
	}
	return node, nil
}

// arith_expr = term { ( "+" | "-" ) term } ;
func (p *Parser) parseArithExpr() (ast.Expr, error) {
	return p.parseBinary(additiveOps, p.parseTerm, p.parseTerm)
}

// term = factor { ( "*" | "/" | "%" ) factor } ;
func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinary(multiplicativeOps, p.parseFactor, p.parseFactor)
}

// factor = ( "-" | NOT ) factor | power ;
func (p *Parser) parseFactor() (ast.Expr, error) {
	if node, ok := p.parseMinInt(); ok {
		return node, nil
	}
	if unaryOps.Contains(p.cur.Type) {
		tok := p.cur
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Token: tok, Op: tok.Type, Operand: operand}, nil
	}
	return p.parsePower()
}

// power = atom [ "**" factor ] ;
func (p *Parser) parsePower() (ast.Expr, error) {
	return p.parseBinary(powerOps, p.parseAtom, p.parseFactor)
}

// atom = INT | FLOAT | IDENTIFIER [ "=" expr ] | "(" expr ")" | if_expr | while_expr ;
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.cur

	switch {
	case tok.Type == token.INT:
		return p.parseIntLiteral()
	case tok.Type == token.FLOAT:
		return p.parseFloatLiteral()

	case tok.Type == token.IDENTIFIER:
		p.advance()
		if p.curIs(token.EQ) {
			p.advance()
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Token: tok, Name: tok.Literal, Value: value}, nil
		}
		return &ast.VarAccess{Token: tok, Name: tok.Literal}, nil

	case tok.Type == token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.curIs(token.RPAREN) {
			return nil, p.invalidf("expected ')', got %s", p.cur.Type)
		}
		p.advance()
		return inner, nil

	case tok.Is(token.KEYWORD, token.If):
		return p.parseIfExpr()
	case tok.Is(token.KEYWORD, token.While):
		return p.parseWhileExpr()
	}

	return nil, p.invalidf("expected expression, got %s", tok.Type)
}

// ---------------------------------------------------------------------------
// Control-flow clauses
// ---------------------------------------------------------------------------

// if_expr = IF expr THEN expr [ ELSE expr ] ;
func (p *Parser) parseIfExpr() (ast.Expr, error) {
	tok := p.cur // 'IF'
	p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, wrap(err, tok.Pos, "Invalid condition in IF statement")
	}
	if !p.cur.Is(token.KEYWORD, token.Then) {
		return nil, diag.Errorf(diag.Syntax, p.cur.Pos, "Expected 'THEN' after IF condition")
	}
	p.advance()

	then, err := p.parseExpr()
	if err != nil {
		return nil, wrap(err, tok.Pos, "Invalid body in IF statement")
	}

	node := &ast.If{Token: tok, Cond: cond, Then: then}
	if p.cur.Is(token.KEYWORD, token.Else) {
		elseTok := p.cur
		p.advance()
		alt, err := p.parseExpr()
		if err != nil {
			return nil, wrap(err, elseTok.Pos, "Invalid body in ELSE statement")
		}
		node.Else = alt
	}
	return node, nil
}

// while_expr = WHILE expr THEN expr ;
func (p *Parser) parseWhileExpr() (ast.Expr, error) {
	tok := p.cur // 'WHILE'
	p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, wrap(err, tok.Pos, "Invalid condition in WHILE loop")
	}
	if !p.cur.Is(token.KEYWORD, token.Then) {
		return nil, diag.Errorf(diag.Syntax, p.cur.Pos, "Expected 'THEN' after WHILE condition")
	}
	p.advance()

	body, err := p.parseExpr()
	if err != nil {
		return nil, wrap(err, tok.Pos, "Invalid body in WHILE loop")
	}
	return &ast.While{Token: tok, Cond: cond, Body: body}, nil
}

// ---------------------------------------------------------------------------
// Literal parsers
// ---------------------------------------------------------------------------

func (p *Parser) parseIntLiteral() (ast.Expr, error) {
	tok := p.cur
	val, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, p.invalidf("integer literal %q out of range", tok.Literal)
	}
	p.advance()
	return &ast.Number{Token: tok, Int: val}, nil
}

// minIntDigits is the magnitude of math.MinInt64, which has no positive
// int64 counterpart.
const minIntDigits = "9223372036854775808"

// parseMinInt folds '-' followed by minIntDigits into a single negative
// literal. A following '**' binds tighter than the minus, so that form is
// left to the ladder.
func (p *Parser) parseMinInt() (ast.Expr, bool) {
	if !p.curIs(token.MINUS) || p.idx+2 >= len(p.tokens) {
		return nil, false
	}
	lit, next := p.tokens[p.idx+1], p.tokens[p.idx+2]
	if lit.Type != token.INT || lit.Literal != minIntDigits || next.Type == token.POW {
		return nil, false
	}
	tok := token.Token{Type: token.INT, Literal: "-" + lit.Literal, Pos: p.cur.Pos}
	p.advance()
	p.advance()
	return &ast.Number{Token: tok, Int: math.MinInt64}, true
}

func (p *Parser) parseFloatLiteral() (ast.Expr, error) {
	tok := p.cur
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, p.invalidf("float literal %q out of range", tok.Literal)
	}
	p.advance()
	return &ast.Number{Token: tok, Float: val}, nil
}
