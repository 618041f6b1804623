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
	"bufio"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// WordCompleter takes the currently edited line with the cursor position and
// returns the completion candidates for the partial word to be completed.
type WordCompleter func(line string, pos int) (head string, completions []string, tail string)

// Prompter reads input lines for the console. The terminal implementation is
// backed by liner; tests substitute a scripted one.
type Prompter interface {
	// PromptInput displays prompt and returns the line entered by the user.
	// io.EOF signals the end of input and liner.ErrPromptAborted an
	// interrupted line.
	PromptInput(prompt string) (string, error)

	// SetHistory replaces the prompt history.
	SetHistory(history []string)

	// AppendHistory adds a line to the prompt history.
	AppendHistory(line string)

	// SetWordCompleter installs the tab completion callback.
	SetWordCompleter(completer WordCompleter)

	// Close restores the terminal.
	Close() error
}

// TerminalPrompter is a Prompter on top of a liner terminal.
type TerminalPrompter struct {
	*liner.State
}

// NewTerminalPrompter creates a liner-backed prompter. Ctrl-C aborts the
// current line instead of killing the process.
func NewTerminalPrompter() *TerminalPrompter {
	p := &TerminalPrompter{State: liner.NewLiner()}
	p.SetCtrlCAborts(true)
	p.SetTabCompletionStyle(liner.TabPrints)
	p.SetMultiLineMode(false)
	return p
}

// PromptInput implements Prompter.
func (p *TerminalPrompter) PromptInput(prompt string) (string, error) {
	return p.Prompt(prompt)
}

// SetHistory implements Prompter.
func (p *TerminalPrompter) SetHistory(history []string) {
	p.ClearHistory()
	p.ReadHistory(strings.NewReader(strings.Join(history, "\n")))
}

// SetWordCompleter implements Prompter.
func (p *TerminalPrompter) SetWordCompleter(completer WordCompleter) {
	p.State.SetWordCompleter(liner.WordCompleter(completer))
}

// ReaderPrompter is a Prompter that reads lines from a plain reader, such as
// a pipe or a file. Prompts are not echoed and history is kept in memory only.
type ReaderPrompter struct {
	scanner *bufio.Scanner
	history []string
}

// NewReaderPrompter creates a prompter reading from r.
func NewReaderPrompter(r io.Reader) *ReaderPrompter {
	return &ReaderPrompter{scanner: bufio.NewScanner(r)}
}

// PromptInput implements Prompter.
func (p *ReaderPrompter) PromptInput(prompt string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// History returns the lines appended so far.
func (p *ReaderPrompter) History() []string { return p.history }

func (p *ReaderPrompter) SetHistory(history []string)      { p.history = append([]string(nil), history...) }
func (p *ReaderPrompter) AppendHistory(line string)        { p.history = append(p.history, line) }
func (p *ReaderPrompter) SetWordCompleter(c WordCompleter) {}
func (p *ReaderPrompter) Close() error                     { return nil }
