// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions.
//
// # Key Types
//
//   - History: append-only list of role-tagged messages, replayed as context
//   - Message: a single {role, content} entry
//   - Role: user or assistant
//   - Mode: chat, image or speech, chosen once per session
//
// # Usage
//
//	h := model.NewHistory()
//	h.AppendTurn("hello", "hi there")
//	data, err := h.Serialize()
package model
