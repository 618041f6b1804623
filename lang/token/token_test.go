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

package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		ident string
		want  Type
	}{
		{"IF", KEYWORD},
		{"THEN", KEYWORD},
		{"ELSE", KEYWORD},
		{"WHILE", KEYWORD},
		{"AND", AND},
		{"OR", OR},
		{"NOT", NOT},
		{"if", IDENTIFIER},
		{"And", IDENTIFIER},
		{"counter", IDENTIFIER},
		{"IFX", IDENTIFIER},
	}
	for _, tc := range cases {
		if got := LookupIdent(tc.ident); got != tc.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tc.ident, got, tc.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := POW.String(); got != "POW" {
		t.Errorf("POW.String() = %q", got)
	}
	if got := POW.Symbol(); got != "**" {
		t.Errorf("POW.Symbol() = %q", got)
	}
	if got := INT.Symbol(); got != "INT" {
		t.Errorf("INT.Symbol() = %q", got)
	}
	if got := Type(99).String(); got != "token(99)" {
		t.Errorf("Type(99).String() = %q", got)
	}
	if EQ.IsOperator() {
		t.Error("EQ must not be an operator")
	}
	if !NOT.IsOperator() || !EE.IsOperator() {
		t.Error("NOT and EE must be operators")
	}
	if !FLOAT.IsLiteral() || IDENTIFIER.IsLiteral() {
		t.Error("IsLiteral mismatch")
	}
}

func TestTokenString(t *testing.T) {
	if got := (Token{Type: INT, Literal: "42"}).String(); got != "INT:42" {
		t.Errorf("got %q", got)
	}
	if got := (Token{Type: PLUS}).String(); got != "PLUS" {
		t.Errorf("got %q", got)
	}
	if !(Token{Type: KEYWORD, Literal: Then}).Is(KEYWORD, Then) {
		t.Error("Is(KEYWORD, THEN) = false")
	}
}

func TestKeywords(t *testing.T) {
	want := []string{"AND", "ELSE", "IF", "NOT", "OR", "THEN", "WHILE"}
	got := Keywords()
	if len(got) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
