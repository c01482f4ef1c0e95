// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitcmd finds git commands in chat replies and runs them.
package gitcmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrNotGit is returned by Runner.Run for anything that is not a git
// command.
var ErrNotGit = errors.New("not a git command")

// Extract returns the git commands in text, in order and without
// duplicates. Inside a code fence, a line is a command when it starts with
// "git " after an optional "$ " shell prompt. Outside a fence only lines
// marked as commands count: a "$ git ..." prompt line or a line that is a
// single `git ...` code span. Plain prose such as "git is a version
// control system" is never offered.
func Extract(text string) []string {
	var cmds []string
	seen := make(map[string]bool)
	inFence := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}

		cmd, ok := commandLine(line, inFence)
		if !ok || seen[cmd] {
			continue
		}
		seen[cmd] = true
		cmds = append(cmds, cmd)
	}
	return cmds
}

func commandLine(line string, inFence bool) (string, bool) {
	marked := inFence
	if rest, ok := strings.CutPrefix(line, "$ "); ok {
		line, marked = rest, true
	}
	if span, ok := codeSpan(line); ok {
		line, marked = span, true
	}
	line = strings.TrimSpace(line)

	if !marked || !strings.HasPrefix(line, "git ") {
		return "", false
	}
	return line, true
}

// codeSpan reports whether line is exactly one `...` span and returns its
// contents.
func codeSpan(line string) (string, bool) {
	if len(line) < 3 || line[0] != '`' || line[len(line)-1] != '`' {
		return "", false
	}
	inner := line[1 : len(line)-1]
	if strings.Contains(inner, "`") {
		return "", false
	}
	return inner, true
}

// Runner executes git commands in a working directory.
type Runner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Run executes cmd without a shell and returns its combined output. cmd
// must start with "git ". Arguments are split with shell quoting rules, so
// `-m "two words"` is one argument; variables and substitutions are not
// expanded.
func (r *Runner) Run(ctx context.Context, cmd string) (string, error) {
	parser := shellwords.NewParser()
	fields, err := parser.Parse(cmd)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", cmd, err)
	}
	if parser.Position >= 0 {
		return "", fmt.Errorf("%w: %q uses shell operators", ErrNotGit, cmd)
	}
	if len(fields) < 2 || fields[0] != "git" {
		return "", fmt.Errorf("%w: %q", ErrNotGit, cmd)
	}

	c := exec.CommandContext(ctx, "git", fields[1:]...)
	c.Dir = r.Dir
	out, err := c.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", cmd, err)
	}
	return string(out), nil
}
