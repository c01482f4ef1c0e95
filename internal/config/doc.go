// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates terminal-gpt configuration.
//
// # Configuration Precedence
//
// Later sources win:
//   - Built-in defaults
//   - ~/.terminal-gpt/config.toml (or the file given with --config)
//   - .env in the working directory (loaded into the environment by main)
//   - Environment variables (TGPT_*, OPENAI_API_KEY, OPENAI_BASE_URL)
//   - Command line flags (applied by main)
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	if err := cfg.RequireAPIKey(); err != nil {
//	    // errors.Is(err, config.ErrMissingAPIKey)
//	}
//
// The Config value is built once and passed explicitly to the packages that
// need it. There is no package-level instance.
package config
