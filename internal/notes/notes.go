// Package notes is the on-device embedded table for private event
// notes. Notes never leave the local database.
package notes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id   TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_event ON notes(event_id);
`

type Store struct {
	db *sql.DB
}

// Open creates or opens the notes database at path and ensures the
// schema. Idempotent; safe to call on every boot.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open notes db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping notes db: %w", err)
	}

	// sqlite allows one writer; keep a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("notes pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("notes schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, eventID, content string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (event_id, content, created_at) VALUES (?, ?, ?)`,
		eventID, content, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByEvent returns the event's notes, newest first.
func (s *Store) ListByEvent(ctx context.Context, eventID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, content, created_at FROM notes WHERE event_id = ? ORDER BY id DESC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Note
	for rows.Next() {
		var n model.Note
		var created string
		if err := rows.Scan(&n.ID, &n.EventID, &n.Content, &created); err != nil {
			return nil, err
		}
		n.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("note %d created_at: %w", n.ID, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Delete is scoped to the event so a caller authorized on one event
// can never reach another event's notes.
func (s *Store) Delete(ctx context.Context, id int64, eventID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
