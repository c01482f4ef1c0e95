// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrOddHistory is returned when decoded messages do not form whole turns.
var ErrOddHistory = errors.New("history does not end on a completed turn")

// History is the ordered, append-only list of messages in a session.
// After every completed turn it holds one user and one assistant message
// per turn, in that order. The zero value is an empty History.
type History struct {
	messages []Message
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Append adds one message to the end of the history.
func (h *History) Append(role Role, content string) {
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

// AppendTurn appends a completed turn: the user prompt followed by the
// assistant reply.
func (h *History) AppendTurn(prompt, reply string) {
	h.Append(RoleUser, prompt)
	h.Append(RoleAssistant, reply)
}

// Messages returns a copy of the messages, safe to hand to a backend call.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Turns returns the number of completed turns.
func (h *History) Turns() int {
	return len(h.messages) / 2
}

// IsEmpty reports whether the history has no messages.
func (h *History) IsEmpty() bool {
	return len(h.messages) == 0
}

// FirstPrompt returns the content of the first user message, or "".
func (h *History) FirstPrompt() string {
	for _, m := range h.messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

// Serialize encodes the history as a JSON array of {role, content}
// objects indented with two spaces. An empty history encodes as "[]".
func (h *History) Serialize() ([]byte, error) {
	msgs := h.messages
	if msgs == nil {
		msgs = []Message{}
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

// Deserialize decodes data written by Serialize. The result must consist
// of whole user/assistant turns.
func Deserialize(data []byte) (*History, error) {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(msgs)%2 != 0 {
		return nil, fmt.Errorf("%w: %d messages", ErrOddHistory, len(msgs))
	}
	for i, m := range msgs {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if m.Role != want {
			return nil, fmt.Errorf("decode history: message %d has role %s, want %s", i, m.Role, want)
		}
	}
	return &History{messages: msgs}, nil
}
