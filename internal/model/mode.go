// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Mode is the backend capability a session uses. It is chosen once at
// session start and never inferred from a model name.
type Mode string

const (
	ModeChat   Mode = "chat"
	ModeImage  Mode = "image"
	ModeSpeech Mode = "speech"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeChat, ModeImage, ModeSpeech}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Description returns the menu label for the mode.
func (m Mode) Description() string {
	switch m {
	case ModeChat:
		return "Chat completion"
	case ModeImage:
		return "Image generation"
	case ModeSpeech:
		return "Text to speech"
	default:
		return string(m)
	}
}

// ParseMode resolves a mode by name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want chat, image or speech)", s)
}

// ModeNames returns the mode names as strings, for menus.
func ModeNames() []string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return names
}
