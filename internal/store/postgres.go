// Package store - postgres.go provides the durable opt-in backend.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps enrichment records in a company_enrichments table.
// Unlike the session backend, records here survive indefinitely; fetched_at
// still bounds freshness on read so stale AI data is refreshed.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// PostgresSchema is the DDL for the enrichment table. Applied by the
// caller (migration tooling is out of scope).
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS company_enrichments (
    id         UUID PRIMARY KEY,
    store_key  TEXT UNIQUE NOT NULL,
    record     JSONB NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// NewPostgresStore connects to Postgres and verifies the connection.
// A zero ttl selects DefaultTTL for the freshness bound.
func NewPostgresStore(ctx context.Context, databaseURL string, ttl time.Duration) (*PostgresStore, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

// Get returns the stored blob for a company name if it is still fresh.
func (s *PostgresStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var record []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM company_enrichments
		 WHERE store_key = $1 AND fetched_at > NOW() - $2::interval`,
		Key(name), s.ttl.String(),
	).Scan(&record)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read enrichment for %q: %w", name, err)
	}
	return record, true, nil
}

// Set upserts the blob for a company name, resetting fetched_at.
func (s *PostgresStore) Set(ctx context.Context, name string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO company_enrichments (id, store_key, record, fetched_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (store_key)
		 DO UPDATE SET record = EXCLUDED.record, fetched_at = NOW()`,
		uuid.New(), Key(name), data,
	)
	if err != nil {
		return fmt.Errorf("failed to write enrichment for %q: %w", name, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
