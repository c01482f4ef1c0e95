// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestForSession_TagsLines(t *testing.T) {
	var buf bytes.Buffer
	id := NewSessionID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger := ForSession(NewWriter(&buf, zapcore.InfoLevel), id)
	logger.Info("backend call", zap.String("mode", "chat"))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "backend call", entry["msg"])
	assert.Equal(t, id, entry["session_id"])
	assert.Equal(t, "chat", entry["mode"])
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "terminal-gpt.log")

	logger, closeFn, err := New(Options{File: path, Level: "error", Debug: true})
	require.NoError(t, err)
	logger.Debug("debug enabled")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug enabled")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "x.log"), Level: "verbose"})
	assert.Error(t, err)
}
