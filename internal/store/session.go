// Package store - session.go provides the default ephemeral backend.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
)

// SessionStore is the default backend: a TTL-bound sfcache tier persisted
// under the user cache directory. Records survive process restarts within
// the TTL window but are never kept forever.
type SessionStore struct {
	cache *sfcache.TieredCache[string, []byte]
	ttl   time.Duration
}

// NewSessionStore creates a session store rooted at the user cache
// directory. A zero ttl selects DefaultTTL.
func NewSessionStore(ttl time.Duration) (*SessionStore, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewSessionStoreWithPath(ttl, filepath.Join(cacheDir, "mula-lens", "companies"))
}

// NewSessionStoreWithPath creates a session store persisted at path.
func NewSessionStoreWithPath(ttl time.Duration, path string) (*SessionStore, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("companies", path)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &SessionStore{cache: tc, ttl: ttl}, nil
}

// Get returns the stored blob for a company name.
func (s *SessionStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	data, found, err := s.cache.Get(ctx, Key(name))
	if err != nil || !found {
		// Cache read failures are treated as misses.
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the blob for a company name with the store TTL.
func (s *SessionStore) Set(ctx context.Context, name string, data []byte) error {
	if err := s.cache.Set(ctx, Key(name), data, s.ttl); err != nil {
		return fmt.Errorf("store set for %q: %w", name, err)
	}
	return nil
}

// Close flushes and closes the underlying cache.
func (s *SessionStore) Close() error {
	return s.cache.Close()
}
