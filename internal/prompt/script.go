// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import "io"

// Script is a LineReader that replays fixed answers. An answer equal to
// ScriptInterrupt is returned as ErrInterrupted. After the last answer it
// returns io.EOF.
type Script struct {
	Answers []string
	Prompts []string
}

// ScriptInterrupt marks a Ctrl+C in a Script.
const ScriptInterrupt = "\x03"

// NewScript returns a Script over answers.
func NewScript(answers ...string) *Script {
	return &Script{Answers: answers}
}

// ReadLine implements LineReader.
func (s *Script) ReadLine(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Answers) == 0 {
		return "", io.EOF
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	if answer == ScriptInterrupt {
		return "", ErrInterrupted
	}
	return answer, nil
}
