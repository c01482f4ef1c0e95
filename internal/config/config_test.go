// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable Load reads and points HOME at an empty
// directory so no real config file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{
		"OPENAI_API_KEY", "TGPT_OPENAI_API_KEY", "OPENAI_BASE_URL", "TGPT_OPENAI_BASE_URL",
		"TGPT_BASE_DIR", "TGPT_LOG_LEVEL", "TGPT_RECORD_FAILURES", "TGPT_MARKDOWN",
		"TGPT_COLOR", "TGPT_GIT",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gpt-3.5-turbo", cfg.Models.DefaultChat)
	assert.Equal(t, "dall-e-3", cfg.Models.DefaultImage)
	assert.Equal(t, "tts-1", cfg.Models.DefaultSpeech)
	assert.True(t, cfg.History.RecordFailures)
	assert.Equal(t, 2*time.Minute, cfg.Timeout())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Models, cfg.Models)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_TOMLOverDefaults(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
base_dir = "/srv/tgpt"

[backend]
base_url = "http://localhost:8080/v1"
requests_per_minute = 0

[models]
chat = ["gpt-4o", "gpt-4o-mini"]
default_chat = "gpt-4o-mini"

[history]
record_failures = false

[git]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/tgpt", cfg.BaseDir)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 0, cfg.Backend.RequestsPerMinute)
	assert.Equal(t, 120, cfg.Backend.TimeoutSecs)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.Models.Chat)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.DefaultChat)
	assert.Equal(t, "dall-e-3", cfg.Models.DefaultImage)
	assert.False(t, cfg.History.RecordFailures)
	assert.True(t, cfg.Git.Enabled)
}

func TestLoad_PartialModelsList(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[models]
chat = ["gpt-4o"]
voices = ["nova", "echo"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gpt-4o"}, cfg.Models.Chat)
	assert.Equal(t, "gpt-4o", cfg.Models.DefaultChat)
	assert.Equal(t, "nova", cfg.Models.DefaultVoice)
	// Lists left alone keep their built-in defaults.
	assert.Equal(t, ImageModels, cfg.Models.Image)
	assert.Equal(t, "dall-e-3", cfg.Models.DefaultImage)
	assert.Equal(t, "tts-1", cfg.Models.DefaultSpeech)
}

func TestLoad_DefaultWithoutList(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[models]
default_chat = "gpt-4o"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ChatModels, cfg.Models.Chat)
	assert.Equal(t, "gpt-4o", cfg.Models.DefaultChat)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "[history]\nrecord_failure = false\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.record_failure")
}

func TestLoad_InvalidValues(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[backend]
base_url = "ftp://example.com"
timeout_secs = -1

[models]
default_chat = "gpt-5"
image_size = "10x10"

[ui]
color = "sometimes"
`)

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	for _, want := range []string{
		"backend.base_url", "backend.timeout_secs", "models.default_chat",
		"models.image_size", "ui.color",
	} {
		assert.True(t, fields[want], "missing validation error for %s", want)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example/v1")
	t.Setenv("TGPT_BASE_DIR", "/tmp/tgpt")
	t.Setenv("TGPT_LOG_LEVEL", "debug")
	t.Setenv("TGPT_RECORD_FAILURES", "0")
	t.Setenv("TGPT_MARKDOWN", "false")
	t.Setenv("TGPT_GIT", "true")
	t.Setenv("TGPT_COLOR", "never")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, "sk-plain", cfg.APIKey)
	assert.Equal(t, "https://proxy.example/v1", cfg.Backend.BaseURL)
	assert.Equal(t, "/tmp/tgpt", cfg.BaseDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.History.RecordFailures)
	assert.False(t, cfg.UI.Markdown)
	assert.True(t, cfg.Git.Enabled)
	assert.Equal(t, "never", cfg.UI.Color)
}

func TestApplyEnvOverrides_PrefixedKeyWins(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("TGPT_OPENAI_API_KEY", "sk-prefixed")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, "sk-prefixed", cfg.APIKey)
}

func TestApplyEnvOverrides_BadBool(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TGPT_GIT", "maybe")

	err := Default().ApplyEnvOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TGPT_GIT")
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.APIKey = "   "
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)

	cfg.APIKey = "sk-test"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.BaseDir = base
	cfg.Speech.Dir = filepath.Join(base, "elsewhere", "audio")

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, base, paths.Base)
	assert.Equal(t, filepath.Join(base, "chat_histories"), paths.History)
	assert.Equal(t, filepath.Join(base, "chat_histories", "catalog.db"), paths.Catalog)
	assert.Equal(t, filepath.Join(base, "elsewhere", "audio"), paths.Speech)
	assert.Equal(t, filepath.Join(base, "logs", "terminal-gpt.log"), paths.LogFile)
}

func TestResolveBaseDir_Executable(t *testing.T) {
	cfg := Default()
	dir, err := cfg.ResolveBaseDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}
