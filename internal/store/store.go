// Package store persists notes and page-view analytics in SQLite. Both are
// fire-and-forget collaborators of the content pipeline: a store failure is
// logged by callers and never blocks rendering.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS page_views (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	path       TEXT NOT NULL,
	ip_hash    TEXT NOT NULL,
	referrer   TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	viewed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_page_views_viewed_at ON page_views(viewed_at);

CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	path       TEXT NOT NULL,
	text       TEXT NOT NULL,
	is_public  INTEGER NOT NULL DEFAULT 0,
	author     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_path ON notes(path);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP returns the hex SHA-256 of an IP address; raw addresses are never
// stored.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// RecordPageView stores one page view.
func (s *Store) RecordPageView(ctx context.Context, path, ipHash, referrer, userAgent string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_views (path, ip_hash, referrer, user_agent, viewed_at) VALUES (?, ?, ?, ?, ?)`,
		path, ipHash, referrer, userAgent, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record page view: %w", err)
	}
	return nil
}

// PathViews is a per-path view count.
type PathViews struct {
	Path  string
	Views int
}

// Summary aggregates page views for the trailing window.
type Summary struct {
	Days           int
	TotalViews     int
	UniqueVisitors int
	TopPaths       []PathViews
}

// AnalyticsSummary aggregates views over the last days days.
func (s *Store) AnalyticsSummary(ctx context.Context, days int) (Summary, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	summary := Summary{Days: days}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT ip_hash) FROM page_views WHERE viewed_at >= ?`, since)
	if err := row.Scan(&summary.TotalViews, &summary.UniqueVisitors); err != nil {
		return Summary{}, fmt.Errorf("analytics summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views FROM page_views WHERE viewed_at >= ?
		 GROUP BY path ORDER BY views DESC LIMIT 10`, since)
	if err != nil {
		return Summary{}, fmt.Errorf("analytics top paths: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var pv PathViews
		if err := rows.Scan(&pv.Path, &pv.Views); err != nil {
			return Summary{}, fmt.Errorf("scan top path: %w", err)
		}
		summary.TopPaths = append(summary.TopPaths, pv)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("analytics rows: %w", err)
	}

	return summary, nil
}
