// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"
)

// State is a step of the session loop.
type State int

const (
	StateSelectingMode State = iota
	StateAwaitingPrompt
	StateDispatching
	StateRendering
	StateConfirmSave
	StateExit
)

var stateNames = [...]string{
	StateSelectingMode:  "selecting_mode",
	StateAwaitingPrompt: "awaiting_prompt",
	StateDispatching:    "dispatching",
	StateRendering:      "rendering",
	StateConfirmSave:    "confirm_save",
	StateExit:           "exit",
}

// String returns the state name used in logs.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// exitKeywords end the session (case-insensitive).
var exitKeywords = map[string]bool{
	"exit": true,
	"quit": true,
	"q":    true,
}

// IsExitKeyword reports whether input asks to leave the session.
func IsExitKeyword(input string) bool {
	return exitKeywords[strings.ToLower(strings.TrimSpace(input))]
}
