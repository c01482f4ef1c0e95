// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gelbh/terminal-gpt/internal/model"
)

type stubBackend struct {
	reply    string
	url      string
	audio    string
	err      error
	messages []model.Message
	prompt   string
	voice    string
}

func (s *stubBackend) Complete(_ context.Context, _ string, messages []model.Message) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func (s *stubBackend) GenerateImage(_ context.Context, _, prompt string) (string, error) {
	s.prompt = prompt
	return s.url, s.err
}

func (s *stubBackend) SynthesizeSpeech(_ context.Context, _, text, voice string) (io.ReadCloser, error) {
	s.prompt, s.voice = text, voice
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.audio)), nil
}

type memorySaver struct {
	saved bytes.Buffer
	err   error
}

func (m *memorySaver) Save(audio io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.Copy(&m.saved, audio); err != nil {
		return "", err
	}
	return "speeches/20240501_093000.mp3", nil
}

func TestGateway_ChatReplaysHistory(t *testing.T) {
	stub := &stubBackend{reply: "hi there"}
	g := NewGateway(stub, nil, nil)

	history := []model.Message{
		{Role: model.RoleUser, Content: "first"},
		{Role: model.RoleAssistant, Content: "answer"},
	}
	res := g.Invoke(context.Background(), Request{
		Mode: model.ModeChat, Model: "gpt-3.5-turbo", Prompt: "hello", History: history,
	})

	require.False(t, res.Failed())
	assert.Equal(t, "hi there", res.Text)
	assert.True(t, res.Persist)
	assert.Equal(t, KindNone, res.Kind)
	assert.Equal(t, append(history, model.Message{Role: model.RoleUser, Content: "hello"}), stub.messages)
}

func TestGateway_ImageSendsPromptOnly(t *testing.T) {
	stub := &stubBackend{url: "https://img.example/cat.png"}
	g := NewGateway(stub, nil, nil)

	res := g.Invoke(context.Background(), Request{
		Mode: model.ModeImage, Model: "dall-e-3", Prompt: "a cat",
		History: []model.Message{{Role: model.RoleUser, Content: "ignored"}},
	})

	assert.Equal(t, "https://img.example/cat.png", res.Text)
	assert.True(t, res.Persist)
	assert.Equal(t, "a cat", stub.prompt)
	assert.Nil(t, stub.messages)
}

func TestGateway_SpeechWritesFile(t *testing.T) {
	stub := &stubBackend{audio: "ID3"}
	saver := &memorySaver{}
	g := NewGateway(stub, saver, nil)

	res := g.Invoke(context.Background(), Request{
		Mode: model.ModeSpeech, Model: "tts-1", Prompt: "read this", Voice: "onyx",
	})

	require.False(t, res.Failed())
	assert.False(t, res.Persist)
	assert.Equal(t, "speeches/20240501_093000.mp3", res.Path)
	assert.Contains(t, res.Text, res.Path)
	assert.Equal(t, "ID3", saver.saved.String())
	assert.Equal(t, "onyx", stub.voice)
}

func TestGateway_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mode     model.Mode
		err      error
		saveErr  error
		kind     Kind
		contains string
		persist  bool
	}{
		{"chat rate limited", model.ModeChat, fmt.Errorf("%w: slow down", ErrRateLimited), nil, KindRateLimited, "rate limit", true},
		{"image rejected", model.ModeImage, &BackendError{Status: 400, Message: "content policy"}, nil, KindBackend, "content policy", true},
		{"speech network", model.ModeSpeech, errors.New("dial tcp: refused"), nil, KindUnexpected, "unexpected", false},
		{"speech write", model.ModeSpeech, nil, errors.New("disk full"), KindUnexpected, "disk full", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(&stubBackend{err: tt.err, audio: "x"}, &memorySaver{err: tt.saveErr}, nil)
			res := g.Invoke(context.Background(), Request{Mode: tt.mode, Model: "m", Prompt: "p", Voice: "alloy"})

			assert.True(t, res.Failed())
			assert.Equal(t, tt.kind, res.Kind)
			assert.Contains(t, res.Text, tt.contains)
			assert.Equal(t, tt.persist, res.Persist)
		})
	}
}

func TestGateway_UnknownMode(t *testing.T) {
	g := NewGateway(&stubBackend{}, nil, nil)
	res := g.Invoke(context.Background(), Request{Mode: model.Mode("video")})
	assert.Equal(t, KindUnexpected, res.Kind)
	assert.False(t, res.Persist)
}

func TestGateway_LogsWithoutPrompt(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := NewGateway(&stubBackend{reply: "ok"}, nil, zap.New(core))

	g.Invoke(context.Background(), Request{Mode: model.ModeChat, Model: "gpt-4o", Prompt: "secret prompt"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "chat", fields["mode"])
	assert.Equal(t, "gpt-4o", fields["model"])
	assert.Equal(t, "none", fields["kind"])
	for _, v := range fields {
		assert.NotContains(t, fmt.Sprint(v), "secret prompt")
	}
}
