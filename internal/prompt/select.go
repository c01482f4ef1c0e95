// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

// Menu renders prompts with the session theme. A nil Theme prints plain text.
type Menu struct {
	In    LineReader
	Out   io.Writer
	Theme *styles.Theme
}

func (m *Menu) render(f func(*styles.Theme) styles.Format, text string) string {
	if m.Theme == nil {
		return text
	}
	return f(m.Theme).Render(text)
}

// Select prints label and the options numbered from 1, then reads one
// answer. A valid 1-based index or an exact option text selects that
// option. Anything else prints a warning and returns def; Select never
// asks twice. The only errors are from the reader (ErrInterrupted, io.EOF).
func (m *Menu) Select(label string, options []string, def string) (string, error) {
	fmt.Fprintln(m.Out, m.render(themeBanner, label))
	for i, opt := range options {
		marker := ""
		if opt == def {
			marker = m.render(themeMuted, " (default)")
		}
		fmt.Fprintf(m.Out, "  %s %s%s\n", m.render(themeOption, strconv.Itoa(i+1)+"."), opt, marker)
	}

	answer, err := m.In.ReadLine(m.render(themePrompt, "Select an option: "))
	if err != nil {
		return "", err
	}

	if choice, ok := Choose(options, answer); ok {
		return choice, nil
	}

	fmt.Fprintln(m.Out, m.render(themeWarning,
		fmt.Sprintf("Invalid choice %q. Using default: %s", strings.TrimSpace(answer), def)))
	return def, nil
}

// Choose resolves answer against options without any I/O.
func Choose(options []string, answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if opt == answer {
			return opt, true
		}
	}
	return "", false
}

// Confirm asks a yes/no question. Only "y" and "yes" (any case) are yes.
func (m *Menu) Confirm(question string) (bool, error) {
	answer, err := m.In.ReadLine(m.render(themePrompt, question+" [y/N]: "))
	if err != nil {
		return false, err
	}
	response := strings.ToLower(strings.TrimSpace(answer))
	return response == "y" || response == "yes", nil
}

func themeBanner(t *styles.Theme) styles.Format  { return t.Banner }
func themeOption(t *styles.Theme) styles.Format  { return t.Option }
func themePrompt(t *styles.Theme) styles.Format  { return t.Prompt }
func themeWarning(t *styles.Theme) styles.Format { return t.Warning }
func themeMuted(t *styles.Theme) styles.Format   { return t.Muted }
