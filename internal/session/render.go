// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/gelbh/terminal-gpt/internal/backend"
	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

// NewMarkdown returns a renderer for chat replies wrapped at width. When
// glamour cannot be set up, replies are returned unchanged.
func NewMarkdown(width int) func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return func(text string) string {
		out, err := r.Render(text)
		if err != nil {
			return text
		}
		return strings.Trim(out, "\n")
	}
}

var plainTheme styles.Theme

func (l *Loop) theme() *styles.Theme {
	if l.deps.Theme == nil {
		return &plainTheme
	}
	return l.deps.Theme
}

func (l *Loop) style(f styles.Format, text string) string {
	if l.deps.Theme == nil {
		return text
	}
	return f.Render(text)
}

func (l *Loop) println(s string) {
	fmt.Fprintln(l.deps.Out, s)
}

func (l *Loop) printField(label, value string) {
	l.println(fmt.Sprintf("  %s %s", l.style(l.theme().Muted, label+":"), value))
}

func (l *Loop) printWelcome() {
	t := l.theme()
	l.println("")
	l.println(l.style(t.Banner, "terminal-gpt"))
	l.println(l.style(t.Muted, strings.Repeat("─", 40)))
	l.printField("Mode", fmt.Sprintf("%s (%s)", l.mode, l.mode.Description()))
	l.printField("Model", l.model)
	if n := l.history.Turns(); n > 0 {
		l.printField("Resumed", fmt.Sprintf("%d turns", n))
	}
	l.println("")
	l.println(l.style(t.Muted, "Type your message and press Enter. Type /help for commands, exit to quit."))
	l.println("")
}

func (l *Loop) printResult(res backend.Result) {
	t := l.theme()
	if res.Failed() {
		l.println(l.style(t.Error, res.Text))
		return
	}

	switch l.mode {
	case model.ModeImage:
		l.println(l.style(t.AssistantLabel, "GPT:") + " " + l.style(t.Reply, res.Text))
	case model.ModeSpeech:
		l.println(l.style(t.Success, res.Text))
	default:
		l.println(l.style(t.AssistantLabel, "GPT:"))
		if l.deps.Markdown != nil {
			l.println(l.deps.Markdown(res.Text))
		} else {
			l.println(l.style(t.Reply, res.Text))
		}
	}
	l.println("")
}

// printSummary follows the exit-summary layout: a header, a short rule,
// then one line per counter. A session with nothing done just says goodbye.
func (l *Loop) printSummary() {
	t := l.theme()
	if l.stats.Turns > 0 || l.stats.Failed > 0 || len(l.stats.Saved) > 0 {
		l.println("")
		l.println(l.style(t.Banner, "Session Summary"))
		l.println(l.style(t.Muted, strings.Repeat("─", 15)))
		l.printField("Turns", fmt.Sprint(l.stats.Turns))
		l.printField("Failed", fmt.Sprint(l.stats.Failed))
		l.printField("Duration", formatElapsed(l.now().Sub(l.stats.Started)))
		for _, p := range l.stats.Saved {
			l.printField("Saved", p)
		}
	}
	l.println("")
	l.println(l.style(t.Success, "Goodbye!"))
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
