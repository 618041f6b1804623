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

	"github.com/probechain/probe-calc/lang/token"
)

// num is the numeric view of an operand. Bool widens to Int 0/1.
type num struct {
	i       int64
	f       float64
	isFloat bool
}

func toNum(v Value) (num, bool) {
	switch v := v.(type) {
	case Int:
		return num{i: int64(v)}, true
	case Float:
		return num{f: float64(v), isFloat: true}, true
	case Bool:
		if v {
			return num{i: 1}, true
		}
		return num{}, true
	}
	return num{}, false
}

func (n num) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// arith applies an arithmetic operator. Int op Int stays Int except for '/'
// and for '**' with a negative exponent.
func arith(op token.Type, l, r num) (Value, error) {
	if op == token.DIV {
		b := r.float()
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return Float(l.float() / b), nil
	}
	if l.isFloat || r.isFloat {
		return arithFloat(op, l.float(), r.float())
	}

	a, b := l.i, r.i
	switch op {
	case token.PLUS:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return nil, ErrIntegerOverflow
		}
		return Int(a + b), nil
	case token.MINUS:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return nil, ErrIntegerOverflow
		}
		return Int(a - b), nil
	case token.MUL:
		c, ok := mulInt(a, b)
		if !ok {
			return nil, ErrIntegerOverflow
		}
		return Int(c), nil
	case token.MOD:
		if b == 0 {
			return nil, ErrModuloByZero
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Int(m), nil
	case token.POW:
		if b < 0 {
			return arithFloat(op, float64(a), float64(b))
		}
		c, ok := powInt(a, b)
		if !ok {
			return nil, ErrIntegerOverflow
		}
		return Int(c), nil
	}
	return nil, ErrNoRule
}

func arithFloat(op token.Type, a, b float64) (Value, error) {
	switch op {
	case token.PLUS:
		return Float(a + b), nil
	case token.MINUS:
		return Float(a - b), nil
	case token.MUL:
		return Float(a * b), nil
	case token.MOD:
		if b == 0 {
			return nil, ErrModuloByZero
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Float(m), nil
	case token.POW:
		if a == 0 && b < 0 {
			return nil, ErrDivisionByZero
		}
		c := math.Pow(a, b)
		if math.IsNaN(c) && !math.IsNaN(a) && !math.IsNaN(b) {
			return nil, ErrMathDomain
		}
		if math.IsInf(c, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
			return nil, ErrFloatOverflow
		}
		return Float(c), nil
	}
	return nil, ErrNoRule
}

// compare applies ==, < or >. Two Ints compare exactly; anything else
// compares as float64.
func compare(op token.Type, l, r num) Bool {
	if !l.isFloat && !r.isFloat {
		switch op {
		case token.EE:
			return l.i == r.i
		case token.LT:
			return l.i < r.i
		default:
			return l.i > r.i
		}
	}
	a, b := l.float(), r.float()
	switch op {
	case token.EE:
		return a == b
	case token.LT:
		return a < b
	default:
		return a > b
	}
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

// powInt computes base**exp for exp >= 0 by repeated squaring.
func powInt(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}
