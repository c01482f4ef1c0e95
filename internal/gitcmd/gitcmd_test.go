// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gitcmd

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	reply := "To publish your branch:\n\n" +
		"```bash\n" +
		"$ git add -A\n" +
		"git commit -m \"initial\"\n" +
		"```\n\n" +
		"Then run `git push origin main`.\n" +
		"$ git status\n" +
		"`git log --oneline`\n" +
		"$ git add -A\n" +
		"github is not git\n" +
		"gitk --all\n"

	assert.Equal(t, []string{
		"git add -A",
		`git commit -m "initial"`,
		"git status",
		"git log --oneline",
	}, Extract(reply))
}

func TestExtract_InlineCommandLine(t *testing.T) {
	assert.Equal(t, []string{"git log --oneline"}, Extract("`git log --oneline`"))
	assert.Empty(t, Extract("no commands here"))
}

func TestExtract_IgnoresProse(t *testing.T) {
	reply := "git is a version control system.\n" +
		"git add stages changes before a commit.\n" +
		"  git status shows what changed\n" +
		"Use `git diff` to compare `HEAD` with the index.\n"

	assert.Empty(t, Extract(reply))
}

func TestExtract_UnterminatedFence(t *testing.T) {
	reply := "```\ngit fetch --all\n"
	assert.Equal(t, []string{"git fetch --all"}, Extract(reply))
}

func TestRunner_RejectsNonGit(t *testing.T) {
	r := &Runner{}
	for _, cmd := range []string{"rm -rf /", "git", "", "gitx status", "git log | sh", "git status; rm -rf /"} {
		_, err := r.Run(context.Background(), cmd)
		assert.ErrorIs(t, err, ErrNotGit, cmd)
	}
}

func TestRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	r := &Runner{Dir: t.TempDir()}
	out, err := r.Run(context.Background(), "git --version")
	require.NoError(t, err)
	assert.Contains(t, out, "git version")

	out, err = r.Run(context.Background(), "git definitely-not-a-subcommand")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "git definitely-not-a-subcommand")
	assert.NotEmpty(t, out)
}

func TestRunner_QuotedArguments(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	r := &Runner{Dir: dir}
	ctx := context.Background()
	for _, cmd := range []string{
		"git init -q",
		`git config user.name "Test User"`,
		"git config user.email test@example.com",
		"git config commit.gpgsign false",
	} {
		_, err := r.Run(ctx, cmd)
		require.NoError(t, err, cmd)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))

	_, err := r.Run(ctx, "git add README.md")
	require.NoError(t, err)
	_, err = r.Run(ctx, `git commit -q -m "Initial commit"`)
	require.NoError(t, err)

	out, err := r.Run(ctx, "git log -1 --format=%s")
	require.NoError(t, err)
	assert.Equal(t, "Initial commit", strings.TrimSpace(out))

	out, err = r.Run(ctx, "git log -1 --format=%an")
	require.NoError(t, err)
	assert.Equal(t, "Test User", strings.TrimSpace(out))
}

func TestRunner_UnbalancedQuote(t *testing.T) {
	r := &Runner{Dir: t.TempDir()}
	_, err := r.Run(context.Background(), `git commit -m "never closed`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotGit)
	assert.Contains(t, err.Error(), "parse")
}
