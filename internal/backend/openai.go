// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/gelbh/terminal-gpt/internal/model"
)

const (
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 120 * time.Second

	// DefaultImageSize is used when Options.ImageSize is empty.
	DefaultImageSize = openai.CreateImageSize1024x1024
)

// Options configures the OpenAI backend.
type Options struct {
	APIKey string
	// BaseURL overrides the API endpoint (empty = api.openai.com)
	BaseURL string
	Timeout time.Duration
	// RequestsPerMinute paces requests client side (0 = unlimited)
	RequestsPerMinute int
	ImageSize         string
	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// OpenAI implements Backend over the OpenAI API.
type OpenAI struct {
	client    *openai.Client
	limiter   *rate.Limiter
	imageSize string
}

// NewOpenAI creates the backend.
func NewOpenAI(opts Options) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	size := opts.ImageSize
	if size == "" {
		size = DefaultImageSize
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		limiter:   rate.NewLimiter(limit, 1),
		imageSize: size,
	}
}

// wait blocks until the limiter admits one request.
func (c *OpenAI) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for request slot: %w", err)
	}
	return nil
}

// Complete implements Backend.
func (c *OpenAI) Complete(ctx context.Context, modelID string, messages []model.Message) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:    modelID,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", translate(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage implements Backend.
func (c *OpenAI) GenerateImage(ctx context.Context, modelID, prompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          modelID,
		N:              1,
		Size:           c.imageSize,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", translate(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("image generation returned no URL")
	}
	return resp.Data[0].URL, nil
}

// SynthesizeSpeech implements Backend.
func (c *OpenAI) SynthesizeSpeech(ctx context.Context, modelID, text, voice string) (io.ReadCloser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(modelID),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, translate(err)
	}
	return resp.ReadCloser, nil
}

// translate maps go-openai errors onto ErrRateLimited and *BackendError.
// Anything else is returned wrapped and classifies as KindUnexpected.
func translate(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		}
		code := ""
		if apiErr.Code != nil {
			code = fmt.Sprint(apiErr.Code)
		}
		return &BackendError{Status: apiErr.HTTPStatusCode, Code: code, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: HTTP %d", ErrRateLimited, reqErr.HTTPStatusCode)
		}
		if reqErr.HTTPStatusCode > 0 {
			msg := http.StatusText(reqErr.HTTPStatusCode)
			if reqErr.Err != nil {
				msg = reqErr.Err.Error()
			}
			return &BackendError{Status: reqErr.HTTPStatusCode, Message: msg}
		}
	}

	return fmt.Errorf("request failed: %w", err)
}
