// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cast"
)

// EnvPrefix prefixes every terminal-gpt environment variable.
const EnvPrefix = "TGPT"

// envOverrides lists the environment variables read over the config file.
// Fields tagged envconfig also accept the unprefixed name. Booleans stay
// strings so an unset variable is distinguishable from "false".
type envOverrides struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`

	BaseDir        string `split_words:"true"`
	LogLevel       string `split_words:"true"`
	RecordFailures string `split_words:"true"`
	Markdown       string
	Color          string
	Git            string
}

// ApplyEnvOverrides reads environment variables over c:
//   - OPENAI_API_KEY (or TGPT_OPENAI_API_KEY): the API key
//   - OPENAI_BASE_URL (or TGPT_OPENAI_BASE_URL): overrides backend.base_url
//   - TGPT_BASE_DIR: overrides base_dir
//   - TGPT_LOG_LEVEL: overrides log.level
//   - TGPT_RECORD_FAILURES: overrides history.record_failures
//   - TGPT_MARKDOWN: overrides ui.markdown
//   - TGPT_COLOR: overrides ui.color
//   - TGPT_GIT: overrides git.enabled
func (c *Config) ApplyEnvOverrides() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.APIKey != "" {
		c.APIKey = env.APIKey
	}
	if env.BaseURL != "" {
		c.Backend.BaseURL = env.BaseURL
	}
	if env.BaseDir != "" {
		c.BaseDir = env.BaseDir
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.Color != "" {
		c.UI.Color = env.Color
	}

	bools := []struct {
		name  string
		value string
		dst   *bool
	}{
		{"TGPT_RECORD_FAILURES", env.RecordFailures, &c.History.RecordFailures},
		{"TGPT_MARKDOWN", env.Markdown, &c.UI.Markdown},
		{"TGPT_GIT", env.Git, &c.Git.Enabled},
	}
	for _, b := range bools {
		if b.value == "" {
			continue
		}
		v, err := cast.ToBoolE(b.value)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		*b.dst = v
	}

	return nil
}
