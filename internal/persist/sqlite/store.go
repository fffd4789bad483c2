// Package sqlite provides a SQLite-backed workspace store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"pkt.systems/docshell/internal/persist"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// DefaultFileName is the database created under the state directory.
const DefaultFileName = "workspace.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS workspace (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	active_tab INTEGER,
	layout TEXT NOT NULL DEFAULT '{}',
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE TABLE IF NOT EXISTS workspace_files (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	path TEXT NOT NULL
);
`

// Store persists the workspace snapshot in a SQLite database.
type Store struct {
	db  *sql.DB
	log pslog.Logger
}

// NewStore opens (or creates) the workspace database at dbPath.
func NewStore(dbPath string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("sqlite workspace: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite workspace: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite workspace: open db: %w", err)
	}
	if logger != nil {
		logger = logger.With("workspace", dbPath)
	}
	store := &Store{db: db, log: logger}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite workspace: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite workspace: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the stored snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, snapshot schema.WorkspaceSnapshot) error {
	snapshot = persist.Sanitize(snapshot)
	layout, err := json.Marshal(snapshot.Layout)
	if err != nil {
		return fmt.Errorf("sqlite workspace: encode layout: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite workspace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var active any
	if snapshot.ActiveTab != nil {
		active = *snapshot.ActiveTab
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO workspace (id, active_tab, layout, updated_at)
VALUES (1, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT(id) DO UPDATE SET
	active_tab = excluded.active_tab,
	layout = excluded.layout,
	updated_at = excluded.updated_at`, active, string(layout)); err != nil {
		return fmt.Errorf("sqlite workspace: save workspace: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workspace_files`); err != nil {
		return fmt.Errorf("sqlite workspace: clear files: %w", err)
	}
	for i, file := range snapshot.Files {
		if _, err := tx.ExecContext(ctx, `INSERT INTO workspace_files (position, name, path) VALUES (?, ?, ?)`, i, file.Name, file.Path); err != nil {
			return fmt.Errorf("sqlite workspace: save file %s: %w", file.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite workspace: commit: %w", err)
	}
	if s.log != nil {
		s.log.Trace("workspace save ok", "files", len(snapshot.Files))
	}
	return nil
}

// Restore loads the stored snapshot. ok is false when nothing was saved yet.
func (s *Store) Restore(ctx context.Context) (schema.WorkspaceSnapshot, bool, error) {
	var active sql.NullInt64
	var layoutRaw string
	err := s.db.QueryRowContext(ctx, `SELECT active_tab, layout FROM workspace WHERE id = 1`).Scan(&active, &layoutRaw)
	if errors.Is(err, sql.ErrNoRows) {
		if s.log != nil {
			s.log.Debug("workspace load miss")
		}
		return schema.WorkspaceSnapshot{}, false, nil
	}
	if err != nil {
		return schema.WorkspaceSnapshot{}, false, fmt.Errorf("sqlite workspace: load workspace: %w", err)
	}
	snapshot := schema.WorkspaceSnapshot{}
	if active.Valid {
		snapshot.ActiveTab = schema.IndexPtr(int(active.Int64))
	}
	if err := json.Unmarshal([]byte(layoutRaw), &snapshot.Layout); err != nil {
		return schema.WorkspaceSnapshot{}, false, fmt.Errorf("sqlite workspace: decode layout: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, path FROM workspace_files ORDER BY position`)
	if err != nil {
		return schema.WorkspaceSnapshot{}, false, fmt.Errorf("sqlite workspace: load files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var file schema.WorkspaceFile
		if err := rows.Scan(&file.Name, &file.Path); err != nil {
			return schema.WorkspaceSnapshot{}, false, fmt.Errorf("sqlite workspace: scan file: %w", err)
		}
		snapshot.Files = append(snapshot.Files, file)
	}
	if err := rows.Err(); err != nil {
		return schema.WorkspaceSnapshot{}, false, fmt.Errorf("sqlite workspace: load files: %w", err)
	}
	snapshot = persist.Sanitize(snapshot)
	if s.log != nil {
		s.log.Debug("workspace load ok", "files", len(snapshot.Files))
	}
	return snapshot, true, nil
}

// Clear removes the stored snapshot.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite workspace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM workspace_files`); err != nil {
		return fmt.Errorf("sqlite workspace: clear files: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workspace`); err != nil {
		return fmt.Errorf("sqlite workspace: clear workspace: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite workspace: commit: %w", err)
	}
	return nil
}
