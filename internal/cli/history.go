// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/storage"
	"github.com/gelbh/terminal-gpt/internal/util"
)

const (
	defaultListLimit = 20
	listTimeLayout   = "2006-01-02 15:04:05"
	previewWidth     = 60
)

func historyCommand() *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{Name: "json", Usage: "print JSON"}
	}
	limitFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: defaultListLimit, Usage: "maximum entries (0 = all)"}
	}

	return &cli.Command{
		Name:         "history",
		Usage:        "browse saved chat histories",
		OnUsageError: onUsageError,
		Subcommands: []*cli.Command{
			{
				Name:         "list",
				Usage:        "list saved histories, newest first",
				Flags:        []cli.Flag{limitFlag(), jsonFlag()},
				Action:       runHistoryList,
				OnUsageError: onUsageError,
			},
			{
				Name:         "show",
				Usage:        "print a saved history",
				ArgsUsage:    "<file>",
				Flags:        []cli.Flag{jsonFlag()},
				Action:       runHistoryShow,
				OnUsageError: onUsageError,
			},
			{
				Name:         "search",
				Usage:        "search saved prompts",
				ArgsUsage:    "<text>",
				Flags:        []cli.Flag{limitFlag(), jsonFlag()},
				Action:       runHistorySearch,
				OnUsageError: onUsageError,
			},
		},
	}
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// jsonResponse is the envelope for --json output.
type jsonResponse struct {
	Command string `json:"command"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
}

type savedJSON struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	SavedAt time.Time `json:"saved_at"`
	Turns   int       `json:"turns"`
	Preview string    `json:"preview,omitempty"`
}

func writeJSON(w io.Writer, command string, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResponse{Command: command, Success: true, Data: data})
}

// =============================================================================
// COMMANDS
// =============================================================================

func runHistoryList(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	store := storage.NewHistoryStore(rt.paths.History, nil, rt.log)
	saved, err := store.List()
	if err != nil {
		return err
	}
	if limit := c.Int("limit"); limit > 0 && len(saved) > limit {
		saved = saved[:limit]
	}

	if c.Bool("json") {
		items := make([]savedJSON, len(saved))
		for i, s := range saved {
			items[i] = savedJSON{Name: s.Name, Path: s.Path, SavedAt: s.SavedAt, Turns: s.Turns, Preview: s.Preview}
		}
		return writeJSON(rt.out, "history list", items)
	}

	t := rt.theme
	if len(saved) == 0 {
		fmt.Fprintln(rt.out, t.Muted.Render("No saved histories in "+store.Dir))
		return nil
	}

	fmt.Fprintln(rt.out, t.Banner.Render("Saved Histories"))
	fmt.Fprintln(rt.out, t.Muted.Render(strings.Repeat("─", 15)))
	for _, s := range saved {
		fmt.Fprintf(rt.out, "  %s  %s  %s  %s\n",
			t.Option.Render(s.Name),
			s.SavedAt.Format(listTimeLayout),
			t.Muted.Render(fmt.Sprintf("%3d turns", s.Turns)),
			s.Preview)
	}
	return nil
}

func runHistoryShow(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErrorf("history show takes exactly one file name")
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	store := storage.NewHistoryStore(rt.paths.History, nil, rt.log)
	path := store.Resolve(c.Args().First())
	h, err := store.Load(path)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(rt.out, "history show", h.Messages())
	}

	t := rt.theme
	fmt.Fprintln(rt.out, t.Banner.Render(path))
	fmt.Fprintln(rt.out, t.Muted.Render(fmt.Sprintf("%d turns", h.Turns())))
	fmt.Fprintln(rt.out)
	for _, m := range h.Messages() {
		label := t.UserLabel.Render(m.Role.DisplayName() + ":")
		if m.Role == model.RoleAssistant {
			label = t.AssistantLabel.Render(m.Role.DisplayName() + ":")
		}
		fmt.Fprintln(rt.out, label)
		fmt.Fprintln(rt.out, m.Content)
		fmt.Fprintln(rt.out)
	}
	return nil
}

func runHistorySearch(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return usageErrorf("history search needs the text to look for")
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	catalog, err := storage.OpenCatalog(rt.paths.Catalog)
	if err != nil {
		return err
	}
	defer catalog.Close()

	entries, err := catalog.Search(c.Context, query, c.Int("limit"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		items := make([]savedJSON, len(entries))
		for i, e := range entries {
			items[i] = savedJSON{Path: e.Path, SavedAt: e.SavedAt, Turns: e.Turns, Preview: e.FirstPrompt}
			items[i].Name = strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
		}
		return writeJSON(rt.out, "history search", items)
	}

	t := rt.theme
	if len(entries) == 0 {
		fmt.Fprintln(rt.out, t.Muted.Render(fmt.Sprintf("No saved history matches %q", query)))
		return nil
	}

	fmt.Fprintln(rt.out, t.Banner.Render(fmt.Sprintf("Matches for %q", query)))
	for _, e := range entries {
		fmt.Fprintf(rt.out, "  %s  %s  %s\n",
			e.SavedAt.Local().Format(listTimeLayout),
			t.Muted.Render(fmt.Sprintf("%3d turns", e.Turns)),
			util.Preview(e.FirstPrompt, previewWidth))
		fmt.Fprintf(rt.out, "    %s\n", t.Muted.Render(e.Path))
	}
	return nil
}
