// Package fetch - cached.go provides a read-through page cache.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// DefaultPageTTL is how long fetched pages stay fresh in the cache.
const DefaultPageTTL = 1 * time.Hour

// PageCache wraps sfcache for HTML page caching. GetSet collapses
// concurrent fetches of the same URL into a single request.
type PageCache struct {
	cache *sfcache.TieredCache[string, []byte]
	ttl   time.Duration
}

// NewPageCache creates a page cache with disk persistence under the
// user cache directory.
func NewPageCache(ttl time.Duration) (*PageCache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewPageCacheWithPath(ttl, filepath.Join(cacheDir, "mula-lens"))
}

// NewPageCacheWithPath creates a page cache persisted at cachePath.
func NewPageCacheWithPath(ttl time.Duration, cachePath string) (*PageCache, error) {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("mula-lens", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &PageCache{cache: tc, ttl: ttl}, nil
}

// NewNullPageCache creates a cache with no persistence: every get misses
// and every set is discarded. Useful for tests and --no-cache runs.
func NewNullPageCache() *PageCache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &PageCache{cache: tc}
}

// Fetch retrieves a URL through the cache. On a miss the URL is fetched
// with the given options and the HTML cached for the TTL. Only status-200
// bodies are cached.
func (c *PageCache) Fetch(ctx context.Context, urlStr string, opts *Options) (string, error) {
	data, err := c.cache.GetSet(ctx, urlToKey(urlStr), func(ctx context.Context) ([]byte, error) {
		result, err := URL(ctx, urlStr, opts)
		if err != nil {
			return nil, err
		}
		return []byte(result.HTML), nil
	}, c.ttl)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close flushes and closes the cache.
func (c *PageCache) Close() error {
	return c.cache.Close()
}

// urlToKey hashes a URL into a filesystem-safe, uniform-length key.
func urlToKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
