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

package console

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/probechain/probe-calc/lang/interp"
	"github.com/probechain/probe-calc/lang/token"
)

// RenderVars writes the bindings of env as a table.
func RenderVars(w io.Writer, env *interp.Env) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Value", "Type"})
	table.SetAutoFormatHeaders(false)
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		table.Append([]string{name, interp.Format(val), interp.TypeName(val)})
	}
	table.Render()
}

// RenderTokens writes a token list as a table, one row per token.
func RenderTokens(w io.Writer, toks []token.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Col", "Type", "Literal"})
	table.SetAutoFormatHeaders(false)
	for _, tok := range toks {
		table.Append([]string{strconv.Itoa(tok.Pos.Column), tok.Type.String(), tok.Literal})
	}
	table.Render()
}
