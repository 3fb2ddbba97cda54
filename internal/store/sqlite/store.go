// Package sqlite provides the file-backed observation store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

// Store persists observations in a single append-only sqlite table.
type Store struct {
	db    *sql.DB
	clock tracker.Clock
}

// Open creates the database file if absent, applies the schema, and returns
// a ready Store.
func Open(path string, clock tracker.Clock) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite best practice for embedded use.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, clock: clock}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asin TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL,
			currency TEXT NOT NULL,
			placeholder INTEGER NOT NULL DEFAULT 0,
			url TEXT NOT NULL DEFAULT '',
			captured_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_asin_captured ON price_history(asin, captured_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate price_history: %w", err)
		}
	}
	return nil
}

// Append inserts a new row, stamping it with the current time.
func (s *Store) Append(ctx context.Context, obs tracker.Observation) error {
	placeholder := 0
	if obs.Placeholder {
		placeholder = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history(asin,title,price,currency,placeholder,url,captured_at) VALUES(?,?,?,?,?,?,?)`,
		obs.ASIN, obs.Title, obs.Price, obs.Currency, placeholder, obs.URL, s.clock.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

// Recent returns the rows for asin captured within the trailing window,
// newest first. Insertion order breaks ties within the same second.
func (s *Store) Recent(ctx context.Context, asin string, window time.Duration) ([]tracker.Observation, error) {
	cutoff := s.clock.Now().UTC().Add(-window).Unix()
	rows, err := s.db.QueryContext(ctx,
		`SELECT asin,title,price,currency,placeholder,url,captured_at
		 FROM price_history
		 WHERE asin=? AND captured_at>=?
		 ORDER BY captured_at DESC, id DESC`,
		asin, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []tracker.Observation
	for rows.Next() {
		var (
			obs         tracker.Observation
			placeholder int
			capturedAt  int64
		)
		if err := rows.Scan(&obs.ASIN, &obs.Title, &obs.Price, &obs.Currency, &placeholder, &obs.URL, &capturedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.Placeholder = placeholder == 1
		obs.CapturedAt = time.Unix(capturedAt, 0).UTC()
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}
