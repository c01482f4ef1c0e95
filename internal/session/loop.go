// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/backend"
	"github.com/gelbh/terminal-gpt/internal/config"
	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/prompt"
	"github.com/gelbh/terminal-gpt/internal/storage"
	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

// Dispatcher sends one request to the backend. *backend.Gateway satisfies it.
type Dispatcher interface {
	Invoke(ctx context.Context, req backend.Request) backend.Result
}

// Persister writes a history to a new file. *storage.HistoryStore satisfies it.
type Persister interface {
	Persist(h *model.History) (string, error)
}

// GitRunner runs one git command line. *gitcmd.Runner satisfies it.
type GitRunner interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// Deps are the collaborators of a Loop. In, Out, Gateway and Store are
// required.
type Deps struct {
	In      prompt.LineReader
	Out     io.Writer
	Theme   *styles.Theme
	Gateway Dispatcher
	Store   Persister
	Git     GitRunner
	Logger  *zap.Logger
	// Markdown renders chat replies. Nil prints them as plain styled text.
	Markdown func(string) string
}

// Options configure a Loop.
type Options struct {
	// Mode and Model skip their menus when set.
	Mode  model.Mode
	Model string
	// Models supplies the menus and defaults.
	Models config.ModelsConfig
	// RecordFailures appends failed exchanges to the history.
	RecordFailures bool
	// Git enables the git helper on chat replies.
	Git bool
	// History seeds the session, for resume.
	History *model.History
}

// Stats counts what happened in a session.
type Stats struct {
	Turns   int
	Failed  int
	Started time.Time
	Saved   []string
}

// Loop is one interactive session.
type Loop struct {
	deps Deps
	opts Options
	menu *prompt.Menu
	log  *zap.Logger
	now  func() time.Time

	state   State
	mode    model.Mode
	model   string
	history *model.History
	stats   Stats

	pending string
	result  backend.Result
}

// New creates a Loop. Nothing is read or written until Run.
func New(deps Deps, opts Options) *Loop {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	history := opts.History
	if history == nil {
		history = model.NewHistory()
	}
	return &Loop{
		deps:    deps,
		opts:    opts,
		menu:    &prompt.Menu{In: deps.In, Out: deps.Out, Theme: deps.Theme},
		log:     log,
		now:     time.Now,
		state:   StateSelectingMode,
		history: history,
	}
}

// History returns the session history.
func (l *Loop) History() *model.History {
	return l.history
}

// Stats returns the session counters.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Mode returns the selected mode, empty before selection.
func (l *Loop) Mode() model.Mode {
	return l.mode
}

// Model returns the selected model, empty before selection.
func (l *Loop) Model() string {
	return l.model
}

// Run drives the session until it exits. Interrupts are exit paths, not
// errors; Run only fails when the loop is misconfigured.
func (l *Loop) Run(ctx context.Context) error {
	if l.deps.In == nil || l.deps.Out == nil || l.deps.Gateway == nil || l.deps.Store == nil {
		return errors.New("session: In, Out, Gateway and Store are required")
	}
	l.stats.Started = l.now()

	for l.state != StateExit {
		next := l.step(ctx)
		l.log.Debug("state transition",
			zap.Stringer("from", l.state),
			zap.Stringer("to", next))
		l.state = next
	}

	l.printSummary()
	l.log.Info("session ended",
		zap.Int("turns", l.stats.Turns),
		zap.Int("failed", l.stats.Failed),
		zap.Int("saves", len(l.stats.Saved)))
	return nil
}

func (l *Loop) step(ctx context.Context) State {
	switch l.state {
	case StateSelectingMode:
		return l.selectMode()
	case StateAwaitingPrompt:
		return l.awaitPrompt(ctx)
	case StateDispatching:
		return l.dispatch(ctx)
	case StateRendering:
		return l.render(ctx)
	case StateConfirmSave:
		return l.confirmSave()
	default:
		return StateExit
	}
}

// leave is the single exit path: unsaved history gets a save prompt.
func (l *Loop) leave() State {
	if l.history.IsEmpty() {
		return StateExit
	}
	return StateConfirmSave
}

func (l *Loop) selectMode() State {
	mode := l.opts.Mode
	if mode == "" {
		choice, err := l.menu.Select("Select a mode:", model.ModeNames(), string(model.ModeChat))
		if err != nil {
			l.newline(err)
			return l.leave()
		}
		mode = model.Mode(choice)
	}
	l.mode = mode

	name := l.opts.Model
	if name == "" {
		options, def := l.modelsFor(mode)
		choice, err := l.menu.Select("Select a model:", options, def)
		if err != nil {
			l.newline(err)
			return l.leave()
		}
		name = choice
	}
	l.model = name

	l.log.Info("session started", zap.Stringer("mode", l.mode), zap.String("model", l.model))
	l.printWelcome()
	return StateAwaitingPrompt
}

func (l *Loop) modelsFor(mode model.Mode) ([]string, string) {
	m := l.opts.Models
	switch mode {
	case model.ModeImage:
		return m.Image, m.DefaultImage
	case model.ModeSpeech:
		return m.Speech, m.DefaultSpeech
	default:
		return m.Chat, m.DefaultChat
	}
}

func (l *Loop) awaitPrompt(ctx context.Context) State {
	if ctx.Err() != nil {
		return l.leave()
	}

	line, err := l.deps.In.ReadLine(l.style(l.theme().Prompt, "You: "))
	if err != nil {
		if !prompt.IsExit(err) {
			l.log.Error("reading input", zap.Error(err))
		}
		l.newline(err)
		return l.leave()
	}

	input := strings.TrimSpace(line)
	switch {
	case input == "":
		l.println(l.style(l.theme().Warning, "Please enter a prompt."))
		return StateAwaitingPrompt
	case IsExitKeyword(input):
		return l.leave()
	case l.handleCommand(input):
		return StateAwaitingPrompt
	}

	l.pending = input
	return StateDispatching
}

func (l *Loop) dispatch(ctx context.Context) State {
	req := backend.Request{
		Mode:    l.mode,
		Model:   l.model,
		Prompt:  l.pending,
		History: l.history.Messages(),
	}

	if l.mode == model.ModeSpeech {
		voice, err := l.menu.Select("Select a voice:", l.opts.Models.Voices, l.opts.Models.DefaultVoice)
		if err != nil {
			l.newline(err)
			return l.leave()
		}
		req.Voice = voice
	}

	l.result = l.deps.Gateway.Invoke(ctx, req)
	if ctx.Err() != nil {
		// The interrupt cancelled the request; the turn is dropped.
		l.println(l.style(l.theme().Warning, "Request cancelled."))
		return l.leave()
	}
	return StateRendering
}

func (l *Loop) render(ctx context.Context) State {
	res := l.result
	l.printResult(res)

	if res.Failed() {
		l.stats.Failed++
	} else {
		l.stats.Turns++
	}
	if res.Persist && (!res.Failed() || l.opts.RecordFailures) {
		l.history.AppendTurn(l.pending, res.Text)
	}

	if l.opts.Git && l.deps.Git != nil && l.mode == model.ModeChat && !res.Failed() {
		if err := l.offerGit(ctx, res.Text); err != nil {
			l.newline(err)
			return l.leave()
		}
	}

	l.pending = ""
	l.result = backend.Result{}
	return StateAwaitingPrompt
}

func (l *Loop) confirmSave() State {
	ok, err := l.menu.Confirm("Save chat history?")
	if err != nil {
		l.newline(err)
		l.println(l.style(l.theme().Warning, "Chat history not saved."))
		return StateExit
	}
	if !ok {
		return StateExit
	}
	l.save()
	return StateExit
}

// save persists the history and reports the outcome. Failures are shown,
// never fatal.
func (l *Loop) save() {
	path, err := l.deps.Store.Persist(l.history)
	switch {
	case errors.Is(err, storage.ErrNothingToSave):
		l.println(l.style(l.theme().Info, "Nothing to save yet."))
	case err != nil:
		l.log.Error("saving history", zap.Error(err))
		l.println(l.style(l.theme().Error, fmt.Sprintf("Could not save chat history: %v", err)))
	default:
		l.stats.Saved = append(l.stats.Saved, path)
		l.println(l.style(l.theme().Success, "Chat history saved to "+path))
	}
}

// newline ends the prompt line after Ctrl+C or end of input.
func (l *Loop) newline(err error) {
	if prompt.IsExit(err) {
		fmt.Fprintln(l.deps.Out)
	}
}
