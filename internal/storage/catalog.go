// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/gelbh/terminal-gpt/internal/model"
	"github.com/gelbh/terminal-gpt/internal/util"
)

// CatalogFile is the catalog database name inside the history directory.
const CatalogFile = "catalog.db"

const catalogSchema = `
CREATE TABLE IF NOT EXISTS saves (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    saved_at INTEGER NOT NULL,  -- Unix nanoseconds
    turns INTEGER NOT NULL,
    first_prompt TEXT NOT NULL,
    body TEXT NOT NULL          -- user prompts, newline separated
);

CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
`

// Entry is one catalog row.
type Entry struct {
	ID          string
	Path        string
	SavedAt     time.Time
	Turns       int
	FirstPrompt string
	body        string
}

// NewEntry builds the catalog row for a history saved at path.
func NewEntry(path string, savedAt time.Time, h *model.History) Entry {
	var parts []string
	for _, m := range h.Messages() {
		if m.Role == model.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return Entry{
		ID:          uuid.NewString(),
		Path:        path,
		SavedAt:     savedAt,
		Turns:       h.Turns(),
		FirstPrompt: util.Preview(h.FirstPrompt(), previewWidth),
		body:        strings.Join(parts, "\n"),
	}
}

// Catalog indexes saved histories in SQLite so they can be searched
// without reading every file.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record inserts one saved history.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO saves (id, path, saved_at, turns, first_prompt, body)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Path, e.SavedAt.UnixNano(), e.Turns, e.FirstPrompt, e.body)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Path, err)
	}
	return nil
}

// Search returns saves whose prompts contain query (case-insensitive for
// ASCII), newest first. An empty query matches every save. limit <= 0
// means no limit.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, path, saved_at, turns, first_prompt
		FROM saves
		WHERE body LIKE ? ESCAPE '\'
		ORDER BY saved_at DESC, path DESC
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		var savedAt int64
		if err := rows.Scan(&e.ID, &e.Path, &savedAt, &e.Turns, &e.FirstPrompt); err != nil {
			return nil, fmt.Errorf("search catalog: %w", err)
		}
		e.SavedAt = time.Unix(0, savedAt)
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	return results, nil
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
