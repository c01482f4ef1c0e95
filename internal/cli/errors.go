// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/gelbh/terminal-gpt/internal/config"
	"github.com/gelbh/terminal-gpt/internal/ui/styles"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration or credential error
	ExitConfigError = 3
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError is a bad flag, argument or flag value.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ConfigError is a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var configErr *ConfigError
	if errors.As(err, &configErr) || errors.Is(err, config.ErrMissingAPIKey) {
		return ExitConfigError
	}

	return ExitGeneralError
}

// DisplayError prints err in the standard "[ERROR] message" form, with a
// hint when one applies.
func DisplayError(w io.Writer, theme *styles.Theme, err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", theme.Error.Render("[ERROR]"), err)

	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		fmt.Fprintln(w, theme.Muted.Render("Set OPENAI_API_KEY in the environment or in a .env file in the working directory."))
	case ExitCode(err) == ExitUsageError:
		fmt.Fprintln(w, theme.Muted.Render("Run 'terminal-gpt --help' for usage."))
	}
}
