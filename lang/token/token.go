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

// Package token defines the lexical token types for the calc expression
// language.
//
// Design principles:
//   - ASCII-only input, one expression per line
//   - Upper-case keywords (IF, THEN, ELSE, WHILE, AND, OR, NOT)
//   - Tokens are immutable values; the literal text is the only payload
package token

import (
	"fmt"
	"sort"
)

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// String renders the token as TYPE or TYPE:literal.
func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return t.Type.String() + ":" + t.Literal
}

// Is reports whether the token has the given type and literal.
func (t Token) Is(typ Type, literal string) bool {
	return t.Type == typ && t.Literal == literal
}

// Position tracks source location within a single input line.
type Position struct {
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("col %d", p.Column)
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool { return p.Column > 0 }

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Literals
	INT        // 42
	FLOAT      // 3.14, 3.
	IDENTIFIER // x, counter, total_2

	// Keywords with no dedicated type: IF, ELSE, WHILE, THEN
	KEYWORD

	// Arithmetic
	PLUS  // +
	MINUS // -
	MUL   // *
	DIV   // /
	MOD   // %
	POW   // **

	// Delimiters
	LPAREN // (
	RPAREN // )

	// Assignment and comparison
	EQ // =
	EE // ==
	GT // >
	LT // <

	// Logical keywords
	AND // AND
	OR  // OR
	NOT // NOT
)

var typeNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	INT:        "INT",
	FLOAT:      "FLOAT",
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",

	PLUS:  "PLUS",
	MINUS: "MINUS",
	MUL:   "MUL",
	DIV:   "DIV",
	MOD:   "MOD",
	POW:   "POW",

	LPAREN: "LPAREN",
	RPAREN: "RPAREN",

	EQ: "EQ",
	EE: "EE",
	GT: "GT",
	LT: "LT",

	AND: "AND",
	OR:  "OR",
	NOT: "NOT",
}

var typeSymbols = map[Type]string{
	PLUS:  "+",
	MINUS: "-",
	MUL:   "*",
	DIV:   "/",
	MOD:   "%",
	POW:   "**",
	EQ:    "=",
	EE:    "==",
	GT:    ">",
	LT:    "<",
	AND:   "AND",
	OR:    "OR",
	NOT:   "NOT",
}

// String returns the upper-case name of a token type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Symbol returns the source spelling of an operator type, or its name for
// anything else.
func (t Type) Symbol() string {
	if s, ok := typeSymbols[t]; ok {
		return s
	}
	return t.String()
}

// IsOperator returns true if the token is a binary or unary operator.
func (t Type) IsOperator() bool {
	_, ok := typeSymbols[t]
	return ok && t != EQ
}

// IsLiteral returns true if the token is a numeric literal.
func (t Type) IsLiteral() bool {
	return t == INT || t == FLOAT
}

// Keyword spellings.
const (
	If    = "IF"
	Then  = "THEN"
	Else  = "ELSE"
	While = "WHILE"
)

// keywords maps keyword strings to token types.
var keywords = map[string]Type{
	If:    KEYWORD,
	Then:  KEYWORD,
	Else:  KEYWORD,
	While: KEYWORD,
	"AND": AND,
	"OR":  OR,
	"NOT": NOT,
}

// LookupIdent checks if an identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// Keywords returns every keyword spelling in lexical order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
