// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt reads user input for the chat session: free-form lines,
// numbered menus and yes/no questions.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/peterh/liner"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl+C.
var ErrInterrupted = errors.New("prompt interrupted")

// LineReader reads one line of input after showing a prompt.
// Implementations return ErrInterrupted on Ctrl+C and io.EOF when input
// is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// IsExit reports whether err ends interactive input.
func IsExit(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF)
}

// =============================================================================
// TERMINAL INPUT
// =============================================================================

// Terminal is a LineReader backed by liner, with arrow-key recall of
// earlier input in the same session.
type Terminal struct {
	line *liner.State
}

// NewTerminal takes over the terminal for line editing. Close must be
// called to restore it.
func NewTerminal() *Terminal {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &Terminal{line: line}
}

// ReadLine implements LineReader.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	input, err := t.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrInterrupted
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		t.line.AppendHistory(input)
	}
	return input, nil
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	return t.line.Close()
}

// =============================================================================
// STREAM INPUT
// =============================================================================

// Stream is a LineReader over any io.Reader. It is used when stdin is not
// a terminal and in tests.
//
// Lines are scanned in a background goroutine so that a read can be
// abandoned: when ctx is cancelled while ReadLine is waiting, ReadLine
// returns ErrInterrupted. A read that starts after ctx was cancelled waits
// for input as usual, so the caller can still ask a final question.
type Stream struct {
	ctx     context.Context
	scanner *bufio.Scanner
	out     io.Writer

	start sync.Once
	lines chan streamLine
}

type streamLine struct {
	text string
	err  error
}

// NewStream reads lines from r and echoes prompts to out. Cancelling ctx
// interrupts a pending read.
func NewStream(ctx context.Context, r io.Reader, out io.Writer) *Stream {
	return &Stream{
		ctx:     ctx,
		scanner: bufio.NewScanner(r),
		out:     out,
		lines:   make(chan streamLine),
	}
}

// ReadLine implements LineReader.
func (s *Stream) ReadLine(prompt string) (string, error) {
	// Only a cancellation that arrives during this read interrupts it.
	done := s.ctx.Done()
	if s.ctx.Err() != nil {
		done = nil
	}

	if s.out != nil && prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	s.start.Do(func() { go s.scan() })

	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	case <-done:
		return "", ErrInterrupted
	}
}

// scan feeds lines to ReadLine until the reader is exhausted.
func (s *Stream) scan() {
	defer close(s.lines)
	for s.scanner.Scan() {
		s.lines <- streamLine{text: strings.TrimRight(s.scanner.Text(), "\r")}
	}
	if err := s.scanner.Err(); err != nil {
		s.lines <- streamLine{err: fmt.Errorf("read input: %w", err)}
	}
}

// Open returns a Terminal when stdin is interactive and a Stream over
// stdin otherwise, plus a function that releases it. ctx interrupts a
// pending Stream read; liner reports Ctrl+C itself.
func Open(ctx context.Context, interactive bool) (LineReader, func()) {
	if interactive && liner.TerminalSupported() {
		t := NewTerminal()
		return t, func() { _ = t.Close() }
	}
	return NewStream(ctx, os.Stdin, os.Stdout), func() {}
}
