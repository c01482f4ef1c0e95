// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/model"
)

// SpeechSaver stores synthesized audio and returns where it went.
type SpeechSaver interface {
	Save(audio io.Reader) (string, error)
}

// Request is one prompt to dispatch.
type Request struct {
	Mode   model.Mode
	Model  string
	Prompt string
	// History is replayed before Prompt in chat mode only.
	History []model.Message
	// Voice is used in speech mode only.
	Voice string
}

// Result is the outcome of a dispatch. It is always displayable: on
// failure Text holds the user-facing message and Err the cause.
type Result struct {
	Text string
	// Persist reports whether this mode records turns in the history.
	// Chat and image do; speech does not.
	Persist bool
	Kind    Kind
	Err     error
	// Path is the audio file written in speech mode.
	Path string
}

// Failed reports whether the call failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Gateway dispatches requests to a Backend by mode.
type Gateway struct {
	backend Backend
	speech  SpeechSaver
	log     *zap.Logger
}

// NewGateway creates a gateway. speech receives audio in speech mode.
func NewGateway(b Backend, speech SpeechSaver, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{backend: b, speech: speech, log: log}
}

// Invoke sends req to the backend. It never returns an error; failures
// are classified into the Result.
func (g *Gateway) Invoke(ctx context.Context, req Request) Result {
	start := time.Now()

	var res Result
	switch req.Mode {
	case model.ModeChat:
		res = g.chat(ctx, req)
	case model.ModeImage:
		res = g.image(ctx, req)
	case model.ModeSpeech:
		res = g.speak(ctx, req)
	default:
		res = Result{Err: fmt.Errorf("unknown mode %q", req.Mode)}
	}

	if res.Err != nil {
		res.Kind = Classify(res.Err)
		res.Text = Message(res.Err)
	}

	fields := []zap.Field{
		zap.String("mode", req.Mode.String()),
		zap.String("model", req.Model),
		zap.Duration("duration", time.Since(start)),
		zap.String("kind", res.Kind.String()),
	}
	if res.Err != nil {
		g.log.Warn("backend call failed", append(fields, zap.Error(res.Err))...)
	} else {
		g.log.Info("backend call", fields...)
	}

	return res
}

func (g *Gateway) chat(ctx context.Context, req Request) Result {
	messages := make([]model.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, model.Message{Role: model.RoleUser, Content: req.Prompt})

	reply, err := g.backend.Complete(ctx, req.Model, messages)
	return Result{Text: reply, Persist: true, Err: err}
}

func (g *Gateway) image(ctx context.Context, req Request) Result {
	url, err := g.backend.GenerateImage(ctx, req.Model, req.Prompt)
	return Result{Text: url, Persist: true, Err: err}
}

func (g *Gateway) speak(ctx context.Context, req Request) Result {
	if g.speech == nil {
		return Result{Err: fmt.Errorf("speech output is not configured")}
	}

	audio, err := g.backend.SynthesizeSpeech(ctx, req.Model, req.Prompt, req.Voice)
	if err != nil {
		return Result{Err: err}
	}
	defer audio.Close()

	path, err := g.speech.Save(audio)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: "Speech saved to " + path, Path: path}
}
