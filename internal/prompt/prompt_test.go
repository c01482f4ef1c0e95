// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

var testOptions = []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini"}

func newMenu(answers ...string) (*Menu, *bytes.Buffer) {
	out := &bytes.Buffer{}
	theme := styles.NewTheme(styles.NewRenderer(out, false))
	return &Menu{In: NewScript(answers...), Out: out, Theme: theme}, out
}

func TestSelect_EveryValidIndex(t *testing.T) {
	for i, want := range testOptions {
		m, _ := newMenu(strconv.Itoa(i + 1))
		got, err := m.Select("Choose a model:", testOptions, "gpt-4o")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSelect_LiteralOption(t *testing.T) {
	m, _ := newMenu("gpt-4o-mini")
	got, err := m.Select("Choose a model:", testOptions, "gpt-3.5-turbo")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got)
}

func TestSelect_FallsBackToDefault(t *testing.T) {
	inputs := []string{"", "   ", "0", "4", "-1", "99999999999999999999", "GPT-4O", "chat", "1.5"}

	for _, in := range inputs {
		t.Run(strconv.Quote(in), func(t *testing.T) {
			m, out := newMenu(in, "2")
			got, err := m.Select("Choose a model:", testOptions, "gpt-3.5-turbo")
			require.NoError(t, err)
			assert.Equal(t, "gpt-3.5-turbo", got)
			assert.Contains(t, out.String(), "Using default: gpt-3.5-turbo")

			// never asks twice
			script := m.In.(*Script)
			assert.Len(t, script.Prompts, 1)
			assert.Equal(t, []string{"2"}, script.Answers)
		})
	}
}

func TestSelect_ListsOptionsOneIndexed(t *testing.T) {
	m, out := newMenu("1")
	_, err := m.Select("Choose a mode:", []string{"chat", "image", "speech"}, "chat")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Choose a mode:")
	assert.Contains(t, text, "1. chat (default)")
	assert.Contains(t, text, "2. image")
	assert.Contains(t, text, "3. speech")
}

func TestSelect_ReaderErrors(t *testing.T) {
	m, _ := newMenu(ScriptInterrupt)
	_, err := m.Select("Choose:", testOptions, "gpt-4o")
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.True(t, IsExit(err))

	m, _ = newMenu()
	_, err = m.Select("Choose:", testOptions, "gpt-4o")
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, IsExit(err))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{" YES ", true},
		{"n", false},
		{"", false},
		{"yeah", false},
	}

	for _, tt := range tests {
		m, _ := newMenu(tt.answer)
		got, err := m.Confirm("Save chat history?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
	}
}

func TestConfirm_Interrupted(t *testing.T) {
	m, _ := newMenu(ScriptInterrupt)
	ok, err := m.Confirm("Save chat history?")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestStream_ReadLine(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewStream(context.Background(), strings.NewReader("hello\r\nworld\n"), out)

	line, err := s.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = s.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "world", line)

	_, err = s.ReadLine("> ")
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, "> > > ", out.String())
}

// hookWriter calls fn with every write, from the writing goroutine.
type hookWriter func(p string)

func (h hookWriter) Write(p []byte) (int, error) {
	h(string(p))
	return len(p), nil
}

func TestStream_CancelInterruptsPendingRead(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The prompt is written once the read is committed, so cancelling there
	// lands while ReadLine is waiting for input.
	first := true
	out := hookWriter(func(p string) {
		if first {
			first = false
			cancel()
			return
		}
		go func() { _, _ = pw.Write([]byte("y\n")) }()
	})
	s := NewStream(ctx, pr, out)

	_, err := s.ReadLine("You: ")
	assert.ErrorIs(t, err, ErrInterrupted)

	// Reads after the cancellation wait for input again.
	line, err := s.ReadLine("Save chat history? [y/N]: ")
	require.NoError(t, err)
	assert.Equal(t, "y", line)
}

func TestMenu_NilThemePrintsPlain(t *testing.T) {
	out := &bytes.Buffer{}
	m := &Menu{In: NewScript("9"), Out: out}
	got, err := m.Select("Pick:", []string{"a", "b"}, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got)
	assert.Contains(t, out.String(), "1. a")
}
