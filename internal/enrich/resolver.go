// Package enrich - resolver.go assembles enrichment records with
// read-through caching and in-flight deduplication.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tahsin/mula-lens/internal/fetch"
	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/research"
	"github.com/tahsin/mula-lens/internal/reviews"
	"github.com/tahsin/mula-lens/internal/store"
)

// Resolver resolves company names to enrichment records. It owns no
// global state: construct one per process and pass it to the entry
// points that need it.
type Resolver struct {
	llm      llm.Client
	store    store.Store
	pages    *fetch.PageCache
	reviews  *reviews.Source
	research *research.Client // optional website discovery fallback

	useBrowser bool
	verbose    bool

	group singleflight.Group
}

// Options configures a Resolver.
type Options struct {
	// LLM generates contact, summary, salary, and openings data.
	// Required: resolving without it returns llm.ErrMissingAPIKey
	// before any network call.
	LLM llm.Client
	// Store persists resolved records. Required.
	Store store.Store
	// Pages caches fetched HTML; nil disables caching.
	Pages *fetch.PageCache
	// Reviews is the review-site source. Required.
	Reviews *reviews.Source
	// Research discovers websites when the model finds none. Optional.
	Research *research.Client
	// UseBrowser enables headless rendering for JS-only careers pages.
	UseBrowser bool
	// Verbose enables progress logging.
	Verbose bool
}

// NewResolver creates a Resolver from options.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("enrich: store is required")
	}
	if opts.Reviews == nil {
		return nil, fmt.Errorf("enrich: reviews source is required")
	}
	pages := opts.Pages
	if pages == nil {
		pages = fetch.NewNullPageCache()
	}
	return &Resolver{
		llm:        opts.LLM,
		store:      opts.Store,
		pages:      pages,
		reviews:    opts.Reviews,
		research:   opts.Research,
		useBrowser: opts.UseBrowser,
		verbose:    opts.Verbose,
	}, nil
}

// Resolve returns the enrichment record for a company name. A fresh
// parseable record in the store is returned without any network call;
// otherwise the record is assembled from the model and the review site
// and persisted. Concurrent first resolves of the same name share one
// assembly.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Enrichment, error) {
	if name == "" {
		return nil, fmt.Errorf("enrich: company name is empty")
	}

	if cached := r.lookup(ctx, name); cached != nil {
		r.logf("[ENRICH] cache hit for %q", name)
		return cached, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		// Re-check under the flight: a concurrent resolve may have
		// landed while this call waited.
		if cached := r.lookup(ctx, name); cached != nil {
			return cached, nil
		}
		return r.assemble(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Enrichment), nil
}

// lookup returns the stored record, or nil on miss or corrupt JSON.
func (r *Resolver) lookup(ctx context.Context, name string) *Enrichment {
	data, found, err := r.store.Get(ctx, name)
	if err != nil || !found {
		return nil
	}
	var e Enrichment
	if err := json.Unmarshal(data, &e); err != nil {
		r.logf("[ENRICH] corrupt stored record for %q, refetching: %v", name, err)
		return nil
	}
	return &e
}

// assemble runs the full pipeline: a parallel join of the three
// independent legs, then the dependent openings step, then persist.
func (r *Resolver) assemble(ctx context.Context, name string) (*Enrichment, error) {
	if r.llm == nil {
		return nil, llm.ErrMissingAPIKey
	}

	r.logf("[ENRICH] resolving %q", name)

	var (
		contact  ContactInfo
		en, bn   string
		sent     Sentiment
		salaries []SalaryEntry
	)

	// The legs are independent and each substitutes its own neutral
	// fallback on failure, so the group never sees an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contact = r.fetchContactInfo(gctx, name)
		return nil
	})
	g.Go(func() error {
		en, bn, sent = r.summarizeReviews(gctx, name)
		return nil
	})
	g.Go(func() error {
		salaries = r.fetchSalaries(gctx, name)
		return nil
	})
	_ = g.Wait()

	if contact.Website == "" && r.research != nil {
		if website, err := r.research.DiscoverWebsite(ctx, name); err == nil {
			if u, ok := NormalizeURL(website); ok {
				r.logf("[ENRICH] discovered website for %q via search: %s", name, u)
				contact.Website = u
			}
		}
	}

	e := &Enrichment{
		Company:        name,
		Contact:        contact,
		EnglishSummary: en,
		BanglaSummary:  bn,
		Sentiment:      sent,
		Salaries:       salaries,
	}

	// Openings depend on the resolved website, so this step runs after
	// the join.
	e.Openings = r.fetchOpenings(ctx, name, contact.Website)

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize enrichment for %q: %w", name, err)
	}
	if err := r.store.Set(ctx, name, data); err != nil {
		// A store failure costs a refetch later, not the result now.
		r.logf("[ENRICH] failed to persist record for %q: %v", name, err)
	}

	return e, nil
}

func (r *Resolver) logf(format string, args ...any) {
	if r.verbose {
		log.Printf(format, args...)
	}
}
