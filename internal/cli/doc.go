// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the command line of terminal-gpt.
//
// # Commands
//
//   - chat (default): interactive session in chat, image or speech mode
//   - history list: saved histories, newest first
//   - history show <file>: print a saved history
//   - history search <text>: search saved prompts in the catalog
//   - version: build information
//
// # Exit Codes
//
//	0  success
//	1  general error
//	2  usage error (bad flag, missing argument)
//	3  configuration error (including a missing OPENAI_API_KEY)
//
// Run builds the urfave/cli application, runs it and maps the returned
// error to an exit code; main only sets up signals and calls os.Exit.
package cli
