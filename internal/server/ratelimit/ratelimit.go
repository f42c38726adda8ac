// Package ratelimit provides per-client rate limiting using a token bucket.
package ratelimit

import (
	"sync"
	"time"
)

// Rule sets the limit for requests whose path starts with Path. Method ""
// matches any method. Limit <= 0 means unlimited.
type Rule struct {
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// DefaultConfig limits the model-backed enrichment endpoint hardest; page
// rewriting is cheaper and health checks are never limited.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  300,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/health", Limit: 0},
			{Path: "/enrich", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
			{Path: "/rewrite", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
			{Path: "/decode", Limit: 600, Window: time.Minute, Burst: 60},
		},
	}
}

// Info describes the limit state returned alongside an Allow decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket refilled continuously at rate tokens/second.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	rate       float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity int, rate float64) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		rate:       rate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) take() (allowed bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.rate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	remaining = int(b.tokens)
	if b.tokens < b.capacity {
		reset = now.Add(time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second)))
	} else {
		reset = now
	}
	return allowed, remaining, reset
}

// Limiter tracks a token bucket per client and matched rule.
type Limiter struct {
	mu         sync.Mutex
	config     *Config
	buckets    map[string]*bucket
	lastAccess map[string]time.Time
	stop       chan struct{}
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:     config,
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
		stop:       make(chan struct{}),
	}
	if config.Enabled {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether a request from clientID for the given path and
// method is within its limit.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	rule := l.match(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + rule.Path + ":" + rule.Method
	allowed, remaining, reset := l.bucketFor(key, rule).take()

	info := Info{Allowed: allowed, Limit: rule.Limit, Remaining: remaining, ResetTime: reset}
	if !allowed {
		info.RetryAfter = max(time.Until(reset), 0)
	}
	return allowed, info
}

// match returns the first rule whose path prefix and method fit, falling
// back to the config defaults.
func (l *Limiter) match(path, method string) Rule {
	for _, r := range l.config.Rules {
		if !pathMatch(path, r.Path) {
			continue
		}
		if r.Method == "" || r.Method == method {
			return r
		}
	}
	return Rule{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
}

func pathMatch(path, pattern string) bool {
	if path == pattern {
		return true
	}
	return len(path) > len(pattern) && path[:len(pattern)] == pattern && path[len(pattern)] == '/'
}

func (l *Limiter) bucketFor(key string, rule Rule) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccess[key] = time.Now()
	if b, ok := l.buckets[key]; ok {
		return b
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	window := rule.Window
	if window <= 0 {
		window = time.Minute
	}
	b := newBucket(burst, float64(rule.Limit)/window.Seconds())
	l.buckets[key] = b
	return b
}

// cleanupLoop drops buckets idle for over an hour.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for key, last := range l.lastAccess {
				if last.Before(cutoff) {
					delete(l.buckets, key)
					delete(l.lastAccess, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}
