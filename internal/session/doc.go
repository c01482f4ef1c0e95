// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs the interactive chat loop.
//
// The loop is a small state machine:
//
//	SelectingMode -> AwaitingPrompt -> Dispatching -> Rendering -> AwaitingPrompt
//	                       |
//	                       +-> ConfirmSave -> Exit
//
// One loop serves every mode; the mode chosen at start decides which
// backend call a prompt becomes. The loop owns the History and is the only
// code that appends to it.
//
// # Usage
//
//	loop := session.New(session.Deps{
//	    In:      reader,
//	    Out:     os.Stdout,
//	    Theme:   theme,
//	    Gateway: gateway,
//	    Store:   store,
//	}, session.Options{RecordFailures: true, Models: cfg.Models})
//	err := loop.Run(ctx)
//
// # Exit Paths
//
// Typing exit, quit or q, pressing Ctrl+C at a prompt, reaching end of
// input or an interrupt signal during a request all lead to the same
// place: a save prompt when there is unsaved history, otherwise a direct
// exit with the session summary.
package session
