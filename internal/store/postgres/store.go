// Package postgres provides a Postgres-backed observation store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

type pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store writes observation rows into Postgres.
type Store struct {
	pool  pool
	clock tracker.Clock
}

// Open connects to Postgres using the provided DSN and applies the schema.
func Open(ctx context.Context, dsn string, clock tracker.Clock) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Store{pool: p, clock: clock}
	if err := s.migrate(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(p pool, clock tracker.Clock) *Store {
	return &Store{pool: p, clock: clock}
}

// Close releases the underlying pool resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			id BIGSERIAL PRIMARY KEY,
			asin TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			placeholder BOOLEAN NOT NULL DEFAULT FALSE,
			url TEXT NOT NULL DEFAULT '',
			captured_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_asin_captured ON price_history(asin, captured_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate price_history: %w", err)
		}
	}
	return nil
}

// Append inserts a new row, stamping it with the current time.
func (s *Store) Append(ctx context.Context, obs tracker.Observation) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO price_history (asin, title, price, currency, placeholder, url, captured_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		obs.ASIN, obs.Title, obs.Price, obs.Currency, obs.Placeholder, obs.URL, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

// Recent returns the rows for asin captured within the trailing window,
// newest first. Insertion order breaks ties on equal timestamps.
func (s *Store) Recent(ctx context.Context, asin string, window time.Duration) ([]tracker.Observation, error) {
	cutoff := s.clock.Now().UTC().Add(-window)
	rows, err := s.pool.Query(ctx,
		`SELECT asin, title, price, currency, placeholder, url, captured_at
		 FROM price_history
		 WHERE asin = $1 AND captured_at >= $2
		 ORDER BY captured_at DESC, id DESC`,
		asin, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []tracker.Observation
	for rows.Next() {
		var obs tracker.Observation
		if err := rows.Scan(&obs.ASIN, &obs.Title, &obs.Price, &obs.Currency, &obs.Placeholder, &obs.URL, &obs.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.CapturedAt = obs.CapturedAt.UTC()
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}
