// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/config"
	"github.com/gelbh/terminal-gpt/internal/logging"
	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Run executes the command line in args (args[0] is the program name) and
// returns the process exit code. Errors are printed to errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	err := NewApp(out, errOut).RunContext(ctx, args)
	if err != nil {
		colors := styles.ColorsEnabled(os.Stderr, styles.ColorAuto)
		DisplayError(errOut, styles.NewTheme(styles.NewRenderer(errOut, colors)), err)
	}
	return ExitCode(err)
}

// NewApp builds the application. Without a command it runs chat.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "terminal-gpt",
		Usage:     "chat, image generation and text to speech in the terminal",
		Version:   Version,
		Writer:    out,
		ErrWriter: errOut,
		Flags:     append(globalFlags(), chatFlags()...),
		Action:    runChat,
		Commands: []*cli.Command{
			chatCommand(),
			historyCommand(),
			versionCommand(),
		},
		OnUsageError: onUsageError,
		// Exit codes are decided by Run, not by the framework.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return &UsageError{Err: err}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default ~/.terminal-gpt/config.toml)",
			EnvVars: []string{"TGPT_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "log at debug level",
			EnvVars: []string{"TGPT_DEBUG"},
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "color output: auto, always or never",
		},
	}
}

// runtime is the state shared by every command: configuration, resolved
// paths, the session logger and the output theme.
type runtime struct {
	cfg       *config.Config
	paths     config.Paths
	log       *zap.Logger
	sessionID string
	theme     *styles.Theme
	out       io.Writer
	closeLog  func()
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if c.IsSet("color") {
		mode := styles.ColorMode(c.String("color"))
		switch mode {
		case styles.ColorAuto, styles.ColorAlways, styles.ColorNever:
			cfg.UI.Color = string(mode)
		default:
			return nil, usageErrorf("invalid --color %q (want auto, always or never)", c.String("color"))
		}
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:  paths.LogFile,
		Level: cfg.Log.Level,
		Debug: c.Bool("debug"),
	})
	if err != nil {
		return nil, fmt.Errorf("start logging: %w", err)
	}

	sessionID := logging.NewSessionID()
	out := c.App.Writer
	colors := styles.ColorsEnabled(os.Stdout, styles.ColorMode(cfg.UI.Color))

	return &runtime{
		cfg:       cfg,
		paths:     paths,
		log:       logging.ForSession(logger, sessionID),
		sessionID: sessionID,
		theme:     styles.NewTheme(styles.NewRenderer(out, colors)),
		out:       out,
		closeLog:  closeLog,
	}, nil
}

func (r *runtime) Close() {
	if r.closeLog != nil {
		r.closeLog()
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "terminal-gpt %s\n", Version)
			fmt.Fprintf(c.App.Writer, "  Commit: %s\n", GitCommit)
			fmt.Fprintf(c.App.Writer, "  Built:  %s\n", BuildDate)
			return nil
		},
	}
}
