// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/gitcmd"
	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/util"
)

// Commands handled in the prompt without reaching the backend. Matching is
// exact; any other input, unknown "/..." included, is a prompt.
const (
	CmdHelp    = "/help"
	CmdHistory = "/history"
	CmdSave    = "/save"
	CmdStats   = "/stats"
)

var commandHelp = []struct {
	name, desc string
}{
	{CmdHelp, "Show this help"},
	{CmdHistory, "Show the conversation so far"},
	{CmdSave, "Save the conversation now"},
	{CmdStats, "Show session statistics"},
	{"exit, quit, q", "Leave the session"},
}

// historyPreviewWidth bounds each entry printed by /history.
const historyPreviewWidth = 100

func (l *Loop) handleCommand(input string) bool {
	switch input {
	case CmdHelp:
		l.printHelp()
	case CmdHistory:
		l.printHistory()
	case CmdSave:
		l.save()
	case CmdStats:
		l.printStats()
	default:
		return false
	}
	return true
}

func (l *Loop) printHelp() {
	t := l.theme()
	l.println("")
	l.println(l.style(t.Banner, "Available Commands"))
	for _, c := range commandHelp {
		l.println(fmt.Sprintf("  %s %s", l.style(t.Option, fmt.Sprintf("%-15s", c.name)), c.desc))
	}
	l.println("")
}

func (l *Loop) printHistory() {
	t := l.theme()
	msgs := l.history.Messages()
	if len(msgs) == 0 {
		l.println(l.style(t.Muted, "No messages yet."))
		return
	}

	l.println("")
	l.println(l.style(t.Banner, "Conversation History"))
	for i, m := range msgs {
		label := l.style(t.UserLabel, m.Role.DisplayName())
		if m.Role == model.RoleAssistant {
			label = l.style(t.AssistantLabel, m.Role.DisplayName())
		}
		l.println(fmt.Sprintf("  %d. %s: %s", i+1, label, util.Preview(m.Content, historyPreviewWidth)))
	}
	l.println("")
}

func (l *Loop) printStats() {
	t := l.theme()
	l.println("")
	l.println(l.style(t.Banner, "Session Statistics"))
	l.printField("Mode", l.mode.String())
	l.printField("Model", l.model)
	l.printField("Turns", fmt.Sprint(l.stats.Turns))
	l.printField("Failed", fmt.Sprint(l.stats.Failed))
	l.printField("Messages", fmt.Sprint(l.history.Len()))
	l.printField("Elapsed", formatElapsed(l.now().Sub(l.stats.Started)))
	l.println("")
}

// offerGit asks to run each git command found in reply. It returns an
// error only when the user interrupts the prompt or input ends.
func (l *Loop) offerGit(ctx context.Context, reply string) error {
	t := l.theme()
	for _, cmd := range gitcmd.Extract(reply) {
		ok, err := l.menu.Confirm(fmt.Sprintf("Run `%s`?", cmd))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		out, err := l.deps.Git.Run(ctx, cmd)
		if out = strings.TrimRight(out, "\n"); out != "" {
			l.println(out)
		}
		if err != nil {
			l.log.Warn("git command failed", zap.String("command", cmd), zap.Error(err))
			l.println(l.style(t.Error, fmt.Sprintf("git failed: %v", err)))
		}
	}
	return nil
}
