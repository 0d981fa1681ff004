package notestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/models"
)

// seq records insertion position; ON CONFLICT keeps it on update.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      INTEGER NOT NULL UNIQUE,
	title   TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT ''
);
`

// SQLite is a Store backed by a private in-memory SQLite database.
// Nothing is written to disk and all notes are lost on Close.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens a fresh in-memory database and applies the schema.
func OpenSQLite(ctx context.Context) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("notestore: open db: %w", err)
	}
	// Every new connection to :memory: is a separate empty database.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: ping: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) List(ctx context.Context) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, title, content FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("notestore: list: %w", err)
	}
	defer rows.Close()

	out := make([]models.Note, 0, 16)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content); err != nil {
			return nil, fmt.Errorf("notestore: scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id int64) (models.Note, error) {
	var n models.Note
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, content FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("notestore: get: %w", err)
	}
	return n, nil
}

func (s *SQLite) Upsert(ctx context.Context, n models.Note) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO notes (id, title, content) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title   = excluded.title,
			content = excluded.content
	`, n.ID, n.Title, n.Content)
	if err != nil {
		return fmt.Errorf("notestore: upsert: %w", err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("notestore: remove: %w", err)
	}
	return nil
}

func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("notestore: count: %w", err)
	}
	return n, nil
}

// Close closes the database, discarding every note.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
