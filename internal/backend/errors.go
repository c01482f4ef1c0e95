// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrRateLimited indicates the backend throttled the request (HTTP 429).
var ErrRateLimited = errors.New("rate limited")

// BackendError is returned when the API was reached but rejected the
// request. Message is the API's own diagnostic.
type BackendError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
}

// Kind classifies the outcome of a backend call.
type Kind int

const (
	// KindNone means the call succeeded.
	KindNone Kind = iota
	// KindRateLimited wraps ErrRateLimited.
	KindRateLimited
	// KindBackend wraps *BackendError.
	KindBackend
	// KindUnexpected is everything else: network, decoding, file writes.
	KindUnexpected
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRateLimited:
		return "rate_limited"
	case KindBackend:
		return "backend_error"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify maps err to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrRateLimited) {
		return KindRateLimited
	}
	var be *BackendError
	if errors.As(err, &be) {
		return KindBackend
	}
	return KindUnexpected
}

// Message returns the text shown to the user for a failed call.
func Message(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindRateLimited:
		return "You have hit the rate limit. Please wait a moment and try again."
	case KindBackend:
		var be *BackendError
		errors.As(err, &be)
		return fmt.Sprintf("The API returned an error (HTTP %d): %s", be.Status, be.Message)
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out."
	}
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}
