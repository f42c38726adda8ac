// Package store persists per-company enrichment records as JSON blobs in
// a key-value store. Keys are a fixed prefix plus the decoded company
// name; the store is the single source of truth for "have we already
// enriched company X".
package store

import (
	"context"
	"time"
)

// KeyPrefix is prepended to every company name to form the store key.
const KeyPrefix = "mulalens:company:"

// DefaultTTL bounds how long an enrichment record stays fresh. AI-sourced
// data goes stale, so records expire rather than living forever.
const DefaultTTL = 12 * time.Hour

// Store is a key-value store of JSON-serialized enrichment records.
// Implementations must treat a missing or unreadable value as a miss,
// never as an error the pipeline has to handle.
type Store interface {
	// Get returns the stored blob for a company name, and whether it
	// was present.
	Get(ctx context.Context, name string) ([]byte, bool, error)
	// Set writes the blob for a company name, replacing any previous
	// value.
	Set(ctx context.Context, name string, data []byte) error
	// Close releases resources held by the store.
	Close() error
}

// Key builds the full store key for a company name.
func Key(name string) string {
	return KeyPrefix + name
}
