package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	kind  TEXT NOT NULL,
	value TEXT NOT NULL,
	seq   INTEGER NOT NULL,
	PRIMARY KEY (kind, value)
);
CREATE INDEX IF NOT EXISTS idx_history_kind_seq ON history(kind, seq DESC);
`

// SQLiteStore persists history in a local database file.
type SQLiteStore struct {
	db   *sql.DB
	size int
}

func NewSQLiteStore(ctx context.Context, path string, size int) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if size <= 0 {
		size = consts.HistorySize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite from reporting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db, size: size}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, kind consts.HistoryKind, value string) error {
	value = clean(value)
	if value == "" {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (kind, value, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM history))
		ON CONFLICT (kind, value) DO UPDATE SET seq = excluded.seq`,
		kind.String(), value)
	if err != nil {
		return fmt.Errorf("failed to record %s history: %w", kind, err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE kind = ? AND value NOT IN (
			SELECT value FROM history WHERE kind = ? ORDER BY seq DESC LIMIT ?
		)`,
		kind.String(), kind.String(), s.size)
	if err != nil {
		return fmt.Errorf("failed to trim %s history: %w", kind, err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Recent(ctx context.Context, kind consts.HistoryKind, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM history WHERE kind = ? ORDER BY seq DESC LIMIT ?`,
		kind.String(), limit(n, s.size))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s history: %w", kind, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context, kind consts.HistoryKind) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE kind = ?`, kind.String()); err != nil {
		return fmt.Errorf("failed to clear %s history: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
