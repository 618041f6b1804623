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

package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/probe-calc/lang/interp"
)

func TestReplaySession(t *testing.T) {
	script, err := LoadScript("testdata/session.yaml")
	require.NoError(t, err)
	assert.Equal(t, "session", script.Name)
	require.Len(t, script.Steps, 21)

	eng, _ := newTestEngine(t, nil)
	report, err := script.Replay(context.Background(), eng)
	require.NoError(t, err)
	for _, o := range report.Outcomes {
		assert.True(t, o.Pass, "step %q: want %q/%q, got %q/%q", o.Step.Input, o.Step.Want, o.Step.Error, o.Got, o.Err)
	}
	assert.True(t, report.OK())
	assert.Equal(t, 21, report.Passed)
}

func TestReplayFailures(t *testing.T) {
	script, err := LoadScript("testdata/failing.yaml")
	require.NoError(t, err)

	eng, _ := newTestEngine(t, nil)
	report, err := script.Replay(context.Background(), eng)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 2, report.Failed)

	assert.Equal(t, "2", report.Outcomes[0].Got)
	assert.Equal(t, "Division by zero", report.Outcomes[2].Err)
}

func TestReplayCancelled(t *testing.T) {
	script, err := LoadScript("testdata/session.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng, _ := newTestEngine(t, nil)
	report, err := script.Replay(ctx, eng)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Outcomes)
}

func TestDecodeScriptErrors(t *testing.T) {
	_, err := DecodeScript(strings.NewReader("name: x\nsteps:\n  - input: \"1\"\n    expect: \"1\"\n"))
	assert.Error(t, err, "unknown fields must be rejected")

	_, err = DecodeScript(strings.NewReader("steps:\n  - input: \"1\"\n    want: \"1\"\n    error: \"boom\"\n"))
	assert.EqualError(t, err, "step 1: want and error are mutually exclusive")

	_, err = LoadScript("")
	assert.Error(t, err)
}

func TestRecordAndWrite(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	rec := &Script{Name: "recorded"}
	for _, line := range []string{"x = 2.5", "x * 2", "WHILE 0 THEN 1", "y"} {
		res, err := eng.Run(context.Background(), line)
		rec.Record(line, res.Value, err)
	}

	path := filepath.Join(t.TempDir(), "recorded.yaml")
	require.NoError(t, WriteScript(rec, path))

	loaded, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Input: "x = 2.5", Want: "2.5"},
		{Input: "x * 2", Want: "5.0"},
		{Input: "WHILE 0 THEN 1"},
		{Input: "y", Error: "Variable 'y' is not defined"},
	}, loaded.Steps)

	// A recorded session replays cleanly in a fresh engine.
	fresh, _ := newTestEngine(t, &Config{Interpreter: interp.Options{MaxSteps: 1000}})
	report, err := loaded.Replay(context.Background(), fresh)
	require.NoError(t, err)
	assert.True(t, report.OK())
}
