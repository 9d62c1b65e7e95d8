// Package sqlite provides a SQLite-backed leaderboard store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS leaderboard_entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	score       INTEGER NOT NULL,
	level       INTEGER NOT NULL,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard_entries (score DESC, recorded_at ASC);`

// Store persists leaderboard entries in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ leaderboard.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite leaderboard store and ensures its schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns every stored entry in rank order.
func (s *Store) Load(ctx context.Context) ([]leaderboard.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, leaderboard.ErrStoreNotConfigured
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, score, level, recorded_at
		   FROM leaderboard_entries
		  ORDER BY score DESC, recorded_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0, leaderboard.DefaultSize)
	for rows.Next() {
		var (
			e          leaderboard.Entry
			recordedAt int64
		)
		if err := rows.Scan(&e.Name, &e.Score, &e.Level, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Date = fromMillis(recordedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// Save replaces the stored entries in one transaction.
func (s *Store) Save(ctx context.Context, entries []leaderboard.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return leaderboard.ErrStoreNotConfigured
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO leaderboard_entries (name, score, level, recorded_at) VALUES (?, ?, ?, ?)`,
			e.Name, e.Score, e.Level, toMillis(e.Date),
		); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leaderboard: %w", err)
	}
	return nil
}
