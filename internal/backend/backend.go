// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend talks to the language model API. Backend is the narrow
// contract the session depends on; Gateway dispatches a request by mode and
// turns every failure into a classified, displayable result.
package backend

import (
	"context"
	"io"

	"github.com/gelbh/terminal-gpt/internal/model"
)

// Backend is the set of API calls the client needs.
type Backend interface {
	// Complete returns the assistant reply to messages.
	Complete(ctx context.Context, modelID string, messages []model.Message) (string, error)
	// GenerateImage returns the URL of an image generated from prompt.
	GenerateImage(ctx context.Context, modelID, prompt string) (string, error)
	// SynthesizeSpeech returns mp3 audio of text read in voice. The caller
	// closes the reader.
	SynthesizeSpeech(ctx context.Context, modelID, text, voice string) (io.ReadCloser, error)
}
