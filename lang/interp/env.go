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

import "sort"

// Env is the flat variable environment of one Interpreter. Lookup is
// presence-based: a variable bound to 0 or False is still defined.
type Env struct {
	vars map[string]Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Get returns the value bound to name and whether the binding exists.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Len returns the number of bound names.
func (e *Env) Len() int { return len(e.vars) }

// Names returns the bound names in lexical order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every binding.
func (e *Env) Clear() {
	e.vars = make(map[string]Value)
}
