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

package interp

import (
	"math"
	"strconv"
	"strings"
)

// Value is a runtime value. The variant set is closed: Int, Float and Bool.
// "No value" (the result of a WHILE loop or an IF without a taken branch) is
// represented by a nil Value.
type Value interface {
	// String renders the value the way the console prints it.
	String() string

	value()
}

// Int is a 64-bit signed integer value.
type Int int64

// Float is an IEEE-754 double value.
type Float float64

// Bool is the result of comparisons and NOT.
type Bool bool

func (Int) value()   {}
func (Float) value() {}
func (Bool) value()  {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// String formats f with the shortest representation that round-trips. A
// whole number keeps a trailing ".0"; very large or very small magnitudes use
// exponent form.
func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

// Format renders v, printing "None" for no value.
func Format(v Value) string {
	if v == nil {
		return "None"
	}
	return v.String()
}

// Truthy reports whether v counts as true in a condition: a nonzero number or
// Bool true. No value is falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v != 0
	case Float:
		return v != 0
	case Bool:
		return bool(v)
	}
	return false
}

// TypeName returns the lower-case name of v's variant.
func TypeName(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case nil:
		return "none"
	}
	return "unknown"
}
