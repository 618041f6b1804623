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

// Package lexer implements a single-pass, no-backtracking lexer for the calc
// expression language.
//
// Design principles:
//   - ASCII-only input, one line at a time
//   - Space and tab are the only whitespace; there are no comments
//   - Numbers are a run of digits with at most one '.'; "3." is a FLOAT,
//     ".5" is rejected because a number must start with a digit
//   - The first illegal character aborts the scan; no partial token list is
//     ever returned
package lexer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/probechain/probe-calc/lang/diag"
	"github.com/probechain/probe-calc/lang/token"
)

// ErrIllegalChar is wrapped by every lexical error.
var ErrIllegalChar = errors.New("illegal character")

// Lexer holds the state for a single-pass tokenization run.
type Lexer struct {
	input []byte

	// pos is the index into input of the next byte to be loaded into ch.
	// After advance(), ch == input[pos-1] and pos points one past it.
	pos int
	col int // 1-based column of ch

	ch byte // current character; 0 when past end
}

// New creates a new Lexer for the given input line.
func New(input string) *Lexer {
	l := &Lexer{input: []byte(input)}
	l.advance() // prime l.ch with the first byte
	return l
}

// Tokenize scans text and returns every token including the final EOF, or a
// lexical error and a nil slice.
func Tokenize(text string) ([]token.Token, error) {
	return New(text).Tokenize()
}

// advance moves to the next byte in the input. When the end of input is
// reached, ch is set to 0.
func (l *Lexer) advance() {
	l.col++
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

// atEnd reports whether every input byte has been consumed.
func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

// currentPos returns a token.Position for the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Column: l.col, Offset: l.pos - 1}
}

// skipWhitespace consumes space and tab characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.advance()
	}
}

// NextToken scans and returns the next token from the input. After EOF is
// reached, subsequent calls continue returning EOF tokens.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.atEnd() {
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}
	ch := l.ch

	switch {
	case isDigit(ch):
		typ, lit := l.readNumber()
		return token.Token{Type: typ, Literal: lit, Pos: pos}, nil

	case isLetter(ch):
		lit := l.readIdent()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}, nil
	}

	l.advance() // consume ch; from here on, l.ch is the character AFTER ch

	switch ch {
	case '+':
		return token.Token{Type: token.PLUS, Pos: pos}, nil
	case '-':
		return token.Token{Type: token.MINUS, Pos: pos}, nil
	case '*':
		if l.ch == '*' {
			l.advance()
			return token.Token{Type: token.POW, Pos: pos}, nil
		}
		return token.Token{Type: token.MUL, Pos: pos}, nil
	case '/':
		return token.Token{Type: token.DIV, Pos: pos}, nil
	case '%':
		return token.Token{Type: token.MOD, Pos: pos}, nil
	case '(':
		return token.Token{Type: token.LPAREN, Pos: pos}, nil
	case ')':
		return token.Token{Type: token.RPAREN, Pos: pos}, nil
	case '=':
		if l.ch == '=' {
			l.advance()
			return token.Token{Type: token.EE, Pos: pos}, nil
		}
		return token.Token{Type: token.EQ, Pos: pos}, nil
	case '>':
		return token.Token{Type: token.GT, Pos: pos}, nil
	case '<':
		return token.Token{Type: token.LT, Pos: pos}, nil
	}

	r, _ := utf8.DecodeRune(l.input[pos.Offset:])
	return token.Token{}, diag.Wrap(diag.Lexical, pos, ErrIllegalChar, fmt.Sprintf("Illegal character '%c'", r))
}

// Tokenize returns all tokens (including the final EOF) produced by repeated
// calls to NextToken. On error the tokens scanned so far are discarded.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// readNumber consumes a maximal run of digits containing at most one '.'.
// A second '.' terminates the literal and is left for the next token.
func (l *Lexer) readNumber() (token.Type, string) {
	start := l.pos - 1
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if dots == 1 {
				break
			}
			dots++
		}
		l.advance()
	}
	lit := string(l.input[start : l.pos-1])
	if dots == 0 {
		return token.INT, lit
	}
	return token.FLOAT, lit
}

// readIdent consumes a letter followed by letters, digits and underscores.
func (l *Lexer) readIdent() string {
	start := l.pos - 1
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.advance()
	}
	return string(l.input[start : l.pos-1])
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
