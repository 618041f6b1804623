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

package lexer_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/probechain/probe-calc/lang/diag"
	"github.com/probechain/probe-calc/lang/lexer"
	"github.com/probechain/probe-calc/lang/token"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// tokenCase is a single expected token in a table-driven test.
type tokenCase struct {
	typ     token.Type
	literal string
}

// runTokenize lexes input and checks that it produces exactly the expected
// sequence (plus a final EOF).
func runTokenize(t *testing.T, name, input string, want []tokenCase) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		toks, err := lexer.Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", input, err)
		}
		if len(toks) == 0 {
			t.Fatal("Tokenize returned empty slice")
		}
		last := toks[len(toks)-1]
		if last.Type != token.EOF {
			t.Errorf("last token is %s, want EOF", last.Type)
		}

		got := make([]tokenCase, 0, len(toks)-1)
		for _, tok := range toks[:len(toks)-1] {
			got = append(got, tokenCase{tok.Type, tok.Literal})
		}
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(tokenCase{}), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("tokens mismatch (-want +got):\n%s", diff)
		}
	})
}

// mustFail lexes input and returns the lexical error it must produce.
func mustFail(t *testing.T, input string) *diag.Error {
	t.Helper()
	toks, err := lexer.Tokenize(input)
	if err == nil {
		t.Fatalf("Tokenize(%q) succeeded with %v, want error", input, toks)
	}
	if toks != nil {
		t.Errorf("Tokenize(%q) returned tokens alongside an error: %v", input, toks)
	}
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error %T is not a *diag.Error", err)
	}
	if de.Kind != diag.Lexical {
		t.Errorf("error kind = %s, want lexical", de.Kind)
	}
	if !errors.Is(err, lexer.ErrIllegalChar) {
		t.Errorf("error does not wrap ErrIllegalChar")
	}
	return de
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

func TestOperators(t *testing.T) {
	runTokenize(t, "arithmetic", "+ - * / % **", []tokenCase{
		{token.PLUS, ""}, {token.MINUS, ""}, {token.MUL, ""},
		{token.DIV, ""}, {token.MOD, ""}, {token.POW, ""},
	})
	runTokenize(t, "comparison", "= == < >", []tokenCase{
		{token.EQ, ""}, {token.EE, ""}, {token.LT, ""}, {token.GT, ""},
	})
	runTokenize(t, "parens", "(())", []tokenCase{
		{token.LPAREN, ""}, {token.LPAREN, ""}, {token.RPAREN, ""}, {token.RPAREN, ""},
	})
	runTokenize(t, "pow is greedy", "***", []tokenCase{
		{token.POW, ""}, {token.MUL, ""},
	})
	runTokenize(t, "triple equals", "===", []tokenCase{
		{token.EE, ""}, {token.EQ, ""},
	})
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

func TestNumbers(t *testing.T) {
	runTokenize(t, "int", "42", []tokenCase{{token.INT, "42"}})
	runTokenize(t, "float", "3.14", []tokenCase{{token.FLOAT, "3.14"}})
	runTokenize(t, "trailing dot", "3.", []tokenCase{{token.FLOAT, "3."}})
	runTokenize(t, "leading zeros", "007", []tokenCase{{token.INT, "007"}})
	runTokenize(t, "adjacent ident", "2x", []tokenCase{{token.INT, "2"}, {token.IDENTIFIER, "x"}})
}

func TestNumberErrors(t *testing.T) {
	de := mustFail(t, ".5")
	if de.Msg != "Illegal character '.'" {
		t.Errorf("message = %q", de.Msg)
	}

	de = mustFail(t, "1.2.3")
	if de.Msg != "Illegal character '.'" || de.Pos.Column != 4 {
		t.Errorf("got %q at %s, want '.' at col 4", de.Msg, de.Pos)
	}
}

// ---------------------------------------------------------------------------
// Identifiers and keywords
// ---------------------------------------------------------------------------

func TestIdentifiersAndKeywords(t *testing.T) {
	runTokenize(t, "identifiers", "x counter total_2", []tokenCase{
		{token.IDENTIFIER, "x"}, {token.IDENTIFIER, "counter"}, {token.IDENTIFIER, "total_2"},
	})
	runTokenize(t, "if else", "IF x THEN 1 ELSE 2", []tokenCase{
		{token.KEYWORD, "IF"}, {token.IDENTIFIER, "x"}, {token.KEYWORD, "THEN"},
		{token.INT, "1"}, {token.KEYWORD, "ELSE"}, {token.INT, "2"},
	})
	runTokenize(t, "while", "WHILE c THEN c", []tokenCase{
		{token.KEYWORD, "WHILE"}, {token.IDENTIFIER, "c"}, {token.KEYWORD, "THEN"}, {token.IDENTIFIER, "c"},
	})
	runTokenize(t, "logical", "a AND b OR NOT c", []tokenCase{
		{token.IDENTIFIER, "a"}, {token.AND, "AND"}, {token.IDENTIFIER, "b"},
		{token.OR, "OR"}, {token.NOT, "NOT"}, {token.IDENTIFIER, "c"},
	})
	runTokenize(t, "lower case is not a keyword", "if and", []tokenCase{
		{token.IDENTIFIER, "if"}, {token.IDENTIFIER, "and"},
	})
	runTokenize(t, "keyword prefix", "ANDY ORE", []tokenCase{
		{token.IDENTIFIER, "ANDY"}, {token.IDENTIFIER, "ORE"},
	})
}

// ---------------------------------------------------------------------------
// Whitespace, positions and errors
// ---------------------------------------------------------------------------

func TestWhitespace(t *testing.T) {
	runTokenize(t, "empty", "", nil)
	runTokenize(t, "blank", " \t ", nil)
	runTokenize(t, "tabs", "1\t+\t2", []tokenCase{
		{token.INT, "1"}, {token.PLUS, ""}, {token.INT, "2"},
	})
}

func TestPositions(t *testing.T) {
	toks, err := lexer.Tokenize("x = 10")
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{
		{Type: token.IDENTIFIER, Literal: "x", Pos: token.Position{Column: 1, Offset: 0}},
		{Type: token.EQ, Pos: token.Position{Column: 3, Offset: 2}},
		{Type: token.INT, Literal: "10", Pos: token.Position{Column: 5, Offset: 4}},
		{Type: token.EOF, Pos: token.Position{Column: 7, Offset: 6}},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestIllegalCharacters(t *testing.T) {
	cases := []struct {
		input string
		msg   string
		col   int
	}{
		{"2 $ 3", "Illegal character '$'", 3},
		{"x & y", "Illegal character '&'", 3},
		{"_x", "Illegal character '_'", 1},
		{"1 + é", "Illegal character 'é'", 5},
		{"a != b", "Illegal character '!'", 3},
	}
	for _, tc := range cases {
		de := mustFail(t, tc.input)
		if de.Msg != tc.msg {
			t.Errorf("%q: message = %q, want %q", tc.input, de.Msg, tc.msg)
		}
		if de.Pos.Column != tc.col {
			t.Errorf("%q: column = %d, want %d", tc.input, de.Pos.Column, tc.col)
		}
	}
}

func TestNextTokenAfterEOF(t *testing.T) {
	l := lexer.New("1")
	for i, want := range []token.Type{token.INT, token.EOF, token.EOF} {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Type != want {
			t.Errorf("call %d: got %s, want %s", i, tok.Type, want)
		}
	}
}
