// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"tiny", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
		{"cjk", "你好世界", 5, "你..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateWidth(tt.in, tt.width))
		})
	}
}

func TestPreview_FlattensWhitespace(t *testing.T) {
	assert.Equal(t, "line one line two", Preview("line one\n\n  line two\t", 40))
	assert.Equal(t, 4, StringWidth("你好"))
}

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func TestCreateUnique_CounterSuffix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chat_histories")

	var names []string
	for i := 0; i < 3; i++ {
		f, err := CreateUnique(dir, fixedTime, ".json", 0644)
		require.NoError(t, err)
		names = append(names, filepath.Base(f.Name()))
		require.NoError(t, f.Close())
	}

	assert.Equal(t, []string{
		"20240309_140507.json",
		"20240309_140507_2.json",
		"20240309_140507_3.json",
	}, names)
}

func TestWriteUnique(t *testing.T) {
	dir := t.TempDir()

	p1, err := WriteUnique(dir, fixedTime, ".mp3", strings.NewReader("first"))
	require.NoError(t, err)
	p2, err := WriteUnique(dir, fixedTime, ".mp3", strings.NewReader("second"))
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	data, err = os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteUnique_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteUnique(dir, fixedTime, ".mp3", failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
