// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat sessions and their artifacts.
//
// # Key Types
//
//   - HistoryStore: writes a History to chat_histories/<timestamp>.json,
//     lists and loads saved files
//   - SpeechStore: writes synthesized audio to speeches/<timestamp>.mp3
//   - Catalog: SQLite index of saved histories, searchable by text
//
// # Usage
//
//	store := storage.NewHistoryStore(dir, catalog, logger)
//	path, err := store.Persist(history)
//	if errors.Is(err, storage.ErrNothingToSave) {
//	    // empty session
//	}
//
// # Storage Location
//
// Every directory is relative to the base directory from configuration,
// by default the directory holding the executable. Saved files are never
// rewritten: each save creates a new file, adding _2, _3, ... when two
// saves share the same second.
package storage
