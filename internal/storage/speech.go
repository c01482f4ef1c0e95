// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/gelbh/terminal-gpt/internal/util"
)

// SpeechStore writes synthesized audio files.
type SpeechStore struct {
	// Dir holds the audio files, e.g. <base>/speeches.
	Dir string

	now func() time.Time
}

// NewSpeechStore creates a store over dir.
func NewSpeechStore(dir string) *SpeechStore {
	return &SpeechStore{Dir: dir, now: time.Now}
}

// Save copies audio into a new mp3 file and returns its path. The file
// is removed again if the copy fails part way.
func (s *SpeechStore) Save(audio io.Reader) (string, error) {
	path, err := util.WriteUnique(s.Dir, s.now(), ".mp3", audio)
	if err != nil {
		return "", fmt.Errorf("save speech: %w", err)
	}
	return path, nil
}
