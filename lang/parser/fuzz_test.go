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

package parser

import (
	"context"
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"

	"github.com/probechain/probe-calc/lang/interp"
)

var fuzzWords = []string{
	"0", "1", "2.5", "3.", "x", "y",
	"+", "-", "*", "/", "%", "**",
	"(", ")", "=", "==", "<", ">",
	"IF", "THEN", "ELSE", "WHILE", "AND", "OR", "NOT",
}

// TestRandomInputs feeds random token soups through the pipeline. Parsing
// must either fail cleanly or yield a tree whose printed form parses back to
// itself, and evaluation must terminate within the step budget.
func TestRandomInputs(t *testing.T) {
	f := fuzz.NewWithSeed(1).NilChance(0).NumElements(1, 24)
	for i := 0; i < 2000; i++ {
		var picks []uint8
		f.Fuzz(&picks)

		words := make([]string, len(picks))
		for j, p := range picks {
			words[j] = fuzzWords[int(p)%len(fuzzWords)]
		}
		src := strings.Join(words, " ")

		node, err := ParseString(src)
		if err != nil {
			if node != nil {
				t.Fatalf("%q: tree returned alongside error %v", src, err)
			}
			continue
		}
		printed := node.String()
		again, err := ParseString(printed)
		if err != nil {
			t.Fatalf("%q: printed form %q does not parse: %v", src, printed, err)
		}
		if again.String() != printed {
			t.Fatalf("%q: printed form %q reparses as %q", src, printed, again.String())
		}

		in := interp.New(&interp.Options{MaxSteps: 1000})
		in.Eval(context.Background(), node)
	}
}
