// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNothingToSave is returned by Persist for an empty history. No file is
// created.
var ErrNothingToSave = errors.New("nothing to save")

// ErrHistoryNotFound is returned when a saved history does not exist.
var ErrHistoryNotFound = errors.New("saved history not found")

// =============================================================================
// HISTORY STORE
// =============================================================================

const historyExt = ".json"

// previewWidth is the display width of list previews.
const previewWidth = 60

// SavedHistory describes one saved history file.
type SavedHistory struct {
	Name    string
	Path    string
	SavedAt time.Time
	Turns   int
	Preview string

	seq int
}

// HistoryStore writes and reads history files in one directory.
type HistoryStore struct {
	// Dir holds the history files, e.g. <base>/chat_histories.
	Dir string

	catalog *Catalog
	log     *zap.Logger
	now     func() time.Time
}

// NewHistoryStore creates a store over dir. catalog may be nil, in which
// case saves are not indexed.
func NewHistoryStore(dir string, catalog *Catalog, log *zap.Logger) *HistoryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryStore{
		Dir:     dir,
		catalog: catalog,
		log:     log,
		now:     time.Now,
	}
}

// Persist writes h to a new file named after the current local time and
// returns its path. An empty history writes nothing and returns
// ErrNothingToSave. A failure to index the file in the catalog is logged
// but does not fail the save.
func (s *HistoryStore) Persist(h *model.History) (string, error) {
	if h == nil || h.IsEmpty() {
		return "", ErrNothingToSave
	}

	data, err := h.Serialize()
	if err != nil {
		return "", err
	}

	savedAt := s.now()
	path, err := util.WriteUnique(s.Dir, savedAt, historyExt, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}
	s.log.Info("history saved", zap.String("path", path), zap.Int("turns", h.Turns()))

	if s.catalog != nil {
		entry := NewEntry(path, savedAt, h)
		if err := s.catalog.Record(context.Background(), entry); err != nil {
			s.log.Warn("catalog record failed", zap.String("path", path), zap.Error(err))
		}
	}

	return path, nil
}

// Resolve maps a name from the command line to a file path. Existing
// paths are used as given; otherwise the name is looked up in Dir, with
// ".json" added when missing.
func (s *HistoryStore) Resolve(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	if !strings.HasSuffix(name, historyExt) {
		name += historyExt
	}
	return filepath.Join(s.Dir, filepath.Base(name))
}

// Load reads a saved history.
func (s *HistoryStore) Load(path string) (*model.History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrHistoryNotFound, path)
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	h, err := model.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// List returns the saved histories, most recent first. Files that cannot
// be parsed are skipped.
func (s *HistoryStore) List() ([]SavedHistory, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SavedHistory{}, nil
		}
		return nil, err
	}

	saved := make([]SavedHistory, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), historyExt) {
			continue
		}

		savedAt, seq, ok := parseSavedName(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(s.Dir, entry.Name())
		h, err := s.Load(path)
		if err != nil {
			s.log.Debug("skipping unreadable history", zap.String("path", path), zap.Error(err))
			continue
		}

		saved = append(saved, SavedHistory{
			Name:    strings.TrimSuffix(entry.Name(), historyExt),
			Path:    path,
			SavedAt: savedAt,
			Turns:   h.Turns(),
			Preview: util.Preview(h.FirstPrompt(), previewWidth),
			seq:     seq,
		})
	}

	sort.Slice(saved, func(i, j int) bool {
		if !saved[i].SavedAt.Equal(saved[j].SavedAt) {
			return saved[i].SavedAt.After(saved[j].SavedAt)
		}
		return saved[i].seq > saved[j].seq
	})

	return saved, nil
}

// parseSavedName splits "20060102_150405[_N].json" into its time and
// collision counter.
func parseSavedName(name string) (time.Time, int, bool) {
	base := strings.TrimSuffix(name, historyExt)
	if len(base) < len(util.TimestampLayout) {
		return time.Time{}, 0, false
	}

	t, err := time.ParseInLocation(util.TimestampLayout, base[:len(util.TimestampLayout)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}

	rest := base[len(util.TimestampLayout):]
	if rest == "" {
		return t, 1, true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(rest, "_"))
	if err != nil || !strings.HasPrefix(rest, "_") || n < 2 {
		return time.Time{}, 0, false
	}
	return t, n, true
}
