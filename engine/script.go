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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/probechain/probe-calc/lang/interp"
)

// Script is a recorded session: inputs evaluated in order against one
// engine, each with its expected outcome.
type Script struct {
	Path  string `yaml:"-"`
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one input line. Exactly one of Want and Error is checked: when
// Error is set the input must fail with that message, otherwise it must
// succeed and its formatted value must equal Want. An empty Want expects no
// value.
type Step struct {
	Input string `yaml:"input"`
	Want  string `yaml:"want,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Outcome records what happened to one step during Replay.
type Outcome struct {
	Step Step
	Got  string // formatted value, "" for no value
	Err  string // error message, "" on success
	Pass bool
}

// Report summarises a Replay.
type Report struct {
	Name     string
	Outcomes []Outcome
	Passed   int
	Failed   int
}

// OK reports whether every step passed.
func (r *Report) OK() bool { return r.Failed == 0 }

// LoadScript parses a YAML script from disk.
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return nil, fmt.Errorf("script: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("script: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := DecodeScript(file)
	if err != nil {
		return nil, fmt.Errorf("script: parse %s: %w", abs, err)
	}
	s.Path = abs
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return s, nil
}

// DecodeScript parses a YAML script from r. Unknown fields are rejected.
func DecodeScript(r io.Reader) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}
	for i, step := range s.Steps {
		if step.Want != "" && step.Error != "" {
			return nil, fmt.Errorf("step %d: want and error are mutually exclusive", i+1)
		}
	}
	return &s, nil
}

// WriteScript serialises s to path.
func WriteScript(s *Script, path string) error {
	if s == nil {
		return fmt.Errorf("script: nil script")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("script: marshal %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("script: encoder close: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("script: write %s: %w", path, err)
	}
	return nil
}

// Record appends a step capturing the outcome of one evaluation.
func (s *Script) Record(input string, val interp.Value, err error) {
	step := Step{Input: input}
	if err != nil {
		step.Error = err.Error()
	} else if val != nil {
		step.Want = val.String()
	}
	s.Steps = append(s.Steps, step)
}

// Replay runs every step against eng in order. Failing steps are recorded
// and replay continues; only a done context stops it early.
func (s *Script) Replay(ctx context.Context, eng *Engine) (*Report, error) {
	report := &Report{Name: s.Name}
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		out := Outcome{Step: step}
		res, err := eng.Run(ctx, step.Input)
		if err != nil {
			out.Err = err.Error()
			out.Pass = step.Error != "" && out.Err == step.Error
		} else {
			if res.Value != nil {
				out.Got = res.Value.String()
			}
			out.Pass = step.Error == "" && out.Got == step.Want
		}
		if out.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report, nil
}
