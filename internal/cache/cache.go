// Package cache stores normalized page text in SQLite so repeat fetches of
// the same URL, including pagination follow-ups, skip the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS pages (
    url        TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    fetched_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages (fetched_at);
`

// Store is a TTL cache of normalized page text keyed by URL.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens the cache at path, creating the schema if needed. An empty path
// selects an in-memory database that lasts for the process lifetime.
func Open(path string, ttl time.Duration) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open page cache: %w", err)
	}
	// A second connection to :memory: would see a separate empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure page cache: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize page cache: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

func ensureSchema(db *sql.DB) error {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='pages'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = db.Exec(schema)
		return err
	}
	return err
}

// Get returns the cached text for url. The second result reports whether a
// fresh entry was found. A nil store always misses.
func (s *Store) Get(ctx context.Context, url string) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	var content string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT content, fetched_at FROM pages WHERE url = ?", url).Scan(&content, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read page cache: %w", err)
	}
	if time.Since(time.Unix(fetchedAt, 0)) > s.ttl {
		return "", false, nil
	}
	return content, true, nil
}

// Put stores the text for url, replacing any previous entry.
func (s *Store) Put(ctx context.Context, url, content string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (url, content, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at
	`, url, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write page cache: %w", err)
	}
	return nil
}

// Purge removes entries older than the TTL and reports how many were dropped.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge page cache: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
