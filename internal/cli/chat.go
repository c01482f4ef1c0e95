// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/backend"
	"github.com/gelbh/terminal-gpt/internal/gitcmd"
	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/prompt"
	"github.com/gelbh/terminal-gpt/internal/session"
	"github.com/gelbh/terminal-gpt/internal/storage"
	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:         "chat",
		Usage:        "start an interactive session (default)",
		Flags:        chatFlags(),
		Action:       runChat,
		OnUsageError: onUsageError,
	}
}

func chatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "skip the mode menu: chat, image or speech",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "skip the model menu and use this model",
		},
		&cli.StringFlag{
			Name:    "resume",
			Aliases: []string{"r"},
			Usage:   "seed the conversation from a saved history file",
		},
		&cli.BoolFlag{
			Name:  "record-failures",
			Usage: "keep failed exchanges in the history",
		},
		&cli.BoolFlag{
			Name:  "git",
			Usage: "offer to run git commands found in chat replies",
		},
		&cli.BoolFlag{
			Name:  "markdown",
			Usage: "render chat replies as markdown",
		},
	}
}

// runChat wires the backend, stores and terminal into a session loop and
// runs it until the user leaves.
func runChat(c *cli.Context) error {
	if c.Args().Present() {
		return usageErrorf("unexpected argument %q", c.Args().First())
	}

	var mode model.Mode
	if name := c.String("mode"); name != "" {
		m, err := model.ParseMode(name)
		if err != nil {
			return &UsageError{Err: err}
		}
		mode = m
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	if c.IsSet("record-failures") {
		cfg.History.RecordFailures = c.Bool("record-failures")
	}
	if c.IsSet("git") {
		cfg.Git.Enabled = c.Bool("git")
	}
	if c.IsSet("markdown") {
		cfg.UI.Markdown = c.Bool("markdown")
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	catalog, err := storage.OpenCatalog(rt.paths.Catalog)
	if err != nil {
		// Saves still work without the index.
		rt.log.Warn("catalog unavailable", zap.Error(err))
		catalog = nil
	} else {
		defer catalog.Close()
	}
	store := storage.NewHistoryStore(rt.paths.History, catalog, rt.log)

	var history *model.History
	if name := c.String("resume"); name != "" {
		history, err = store.Load(store.Resolve(name))
		if err != nil {
			return err
		}
		rt.log.Info("resuming history", zap.String("file", name), zap.Int("turns", history.Turns()))
	}

	client := backend.NewOpenAI(backend.Options{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.Backend.RequestsPerMinute,
		ImageSize:         cfg.Models.ImageSize,
	})
	gateway := backend.NewGateway(client, storage.NewSpeechStore(rt.paths.Speech), rt.log)

	in, closeIn := prompt.Open(c.Context, styles.IsTerminal(os.Stdin))
	defer closeIn()

	var markdown func(string) string
	if cfg.UI.Markdown && styles.IsTerminal(os.Stdout) {
		markdown = session.NewMarkdown(styles.TerminalWidth(os.Stdout))
	}

	var git session.GitRunner
	if cfg.Git.Enabled {
		git = &gitcmd.Runner{}
	}

	loop := session.New(session.Deps{
		In:       in,
		Out:      rt.out,
		Theme:    rt.theme,
		Gateway:  gateway,
		Store:    store,
		Git:      git,
		Logger:   rt.log,
		Markdown: markdown,
	}, session.Options{
		Mode:           mode,
		Model:          c.String("model"),
		Models:         cfg.Models,
		RecordFailures: cfg.History.RecordFailures,
		Git:            cfg.Git.Enabled,
		History:        history,
	})
	return loop.Run(c.Context)
}
