package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteStateRowID = 1

// SQLiteBackend keeps the document in a single-row table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		path = "state.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	backend := &SQLiteBackend{db: db}
	if err := backend.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *SQLiteBackend) initSchema(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS scoreboard_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at_unix INTEGER NOT NULL
	);`)
	return err
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Exists(ctx context.Context) (bool, error) {
	var count int
	err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scoreboard_state WHERE id = ?`, sqliteStateRowID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (b *SQLiteBackend) Read(ctx context.Context) ([]byte, error) {
	var document string
	err := b.db.QueryRowContext(ctx, `SELECT document FROM scoreboard_state WHERE id = ?`, sqliteStateRowID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(document), nil
}

func (b *SQLiteBackend) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO scoreboard_state (id, document, updated_at_unix)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at_unix = excluded.updated_at_unix`,
		sqliteStateRowID, string(data), time.Now().Unix(),
	)
	return err
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
