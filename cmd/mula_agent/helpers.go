package main

import (
	"context"
	"fmt"

	"github.com/tahsin/mula-lens/internal/config"
	"github.com/tahsin/mula-lens/internal/enrich"
	"github.com/tahsin/mula-lens/internal/fetch"
	"github.com/tahsin/mula-lens/internal/leet"
	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/research"
	"github.com/tahsin/mula-lens/internal/reviews"
	"github.com/tahsin/mula-lens/internal/store"
)

// loadAppConfig loads the optional config file, overlays environment
// credentials, and validates the result.
func loadAppConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildDecoder creates a decoder from the configured rule file and case
// style; both fall back to defaults when unset.
func buildDecoder(cfg config.Config) (*leet.Decoder, error) {
	var rules []leet.Rule
	if cfg.RuleFile != "" {
		loaded, err := leet.LoadRules(cfg.RuleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from %s: %w", cfg.RuleFile, err)
		}
		rules = loaded
	}
	return leet.NewDecoder(rules, leet.ParseCaseStyle(cfg.CaseStyle)), nil
}

// buildPages creates the fetched-page cache per configuration.
func buildPages(cfg config.Config) (*fetch.PageCache, error) {
	if cfg.NoCache {
		return fetch.NewNullPageCache(), nil
	}
	if cfg.CacheDir != "" {
		return fetch.NewPageCacheWithPath(fetch.DefaultPageTTL, cfg.CacheDir)
	}
	return fetch.NewPageCache(fetch.DefaultPageTTL)
}

// buildStore creates the enrichment store for the configured backend.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	ttl := cfg.TTL(store.DefaultTTL)
	switch cfg.StoreBackend {
	case config.StoreRedis:
		return store.NewRedisStore(ctx, cfg.RedisURL, ttl)
	case config.StorePostgres:
		return store.NewPostgresStore(ctx, cfg.DatabaseURL, ttl)
	default:
		return store.NewSessionStore(ttl)
	}
}

// buildResolver wires the enrichment resolver. The model client is only
// created when an API key is configured; without one the resolver still
// works for stored records and fails fast otherwise.
func buildResolver(ctx context.Context, cfg config.Config, pages *fetch.PageCache) (*enrich.Resolver, store.Store, error) {
	st, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	var model llm.Client
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("failed to create model client: %w", err)
		}
		model = client
	}

	var search *research.Client
	if cfg.SearchAPIKey != "" && cfg.SearchCX != "" {
		search, err = research.NewClient(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("failed to create search client: %w", err)
		}
	}

	resolver, err := enrich.NewResolver(enrich.Options{
		LLM:        model,
		Store:      st,
		Pages:      pages,
		Reviews:    reviews.NewSource(cfg.SiteRoot, pages),
		Research:   search,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return resolver, st, nil
}
