// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TimestampLayout names saved files by local time, one-second resolution.
const TimestampLayout = "20060102_150405"

// maxSuffix bounds the collision counter so a broken filesystem cannot
// loop forever.
const maxSuffix = 10000

// CreateUnique creates a new file in dir named after t and ext. When the
// name is taken a counter is appended (_2, _3, ...). Files are created
// with O_EXCL so an existing file is never opened for writing.
func CreateUnique(dir string, t time.Time, ext string, perm os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	base := t.Format(TimestampLayout)
	for n := 1; n <= maxSuffix; n++ {
		name := base
		if n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		path := filepath.Join(dir, name+ext)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("failed to create file in %s: too many files named %s", dir, base)
}

// RELIABILITY: a failed write never leaves a partial file behind.
//
// WriteUnique creates a file with CreateUnique, copies r into it and closes
// it. On any failure the file is removed. It returns the path written.
func WriteUnique(dir string, t time.Time, ext string, r io.Reader) (string, error) {
	f, err := CreateUnique(dir, t, ext, 0644)
	if err != nil {
		return "", err
	}
	path := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	success = true
	return path, nil
}
