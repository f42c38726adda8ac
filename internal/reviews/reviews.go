// Package reviews fetches and parses employee review blocks from the
// host site's stories listing. The CSS selectors here are a contract
// with the host page's markup and must be kept in sync with it.
package reviews

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tahsin/mula-lens/internal/fetch"
)

// DefaultSiteRoot is the review site origin.
const DefaultSiteRoot = "https://deshimula.com"

// Host-page selectors.
const (
	reviewSelector   = ".company-review"
	upvoteSelector   = ".upvote-count"
	downvoteSelector = ".downvote-count"
)

// Result holds the parsed review blocks and aggregate vote counts for
// one company's stories page.
type Result struct {
	Reviews   []string
	Upvotes   int
	Downvotes int
}

// Source fetches review listings through the shared page cache.
type Source struct {
	siteRoot string
	pages    *fetch.PageCache
}

// NewSource creates a review source. An empty siteRoot selects
// DefaultSiteRoot; a nil cache disables caching.
func NewSource(siteRoot string, pages *fetch.PageCache) *Source {
	if siteRoot == "" {
		siteRoot = DefaultSiteRoot
	}
	if pages == nil {
		pages = fetch.NewNullPageCache()
	}
	return &Source{siteRoot: strings.TrimRight(siteRoot, "/"), pages: pages}
}

// ListingURL builds the stories search URL for a company name.
func (s *Source) ListingURL(company string) string {
	return fmt.Sprintf("%s/stories/1?SearchTerm=%s&Vibe=0", s.siteRoot, url.QueryEscape(company))
}

// Fetch retrieves and parses all review blocks for a company. Review
// text is trimmed and empty blocks are dropped.
func (s *Source) Fetch(ctx context.Context, company string) (*Result, error) {
	html, err := s.pages.Fetch(ctx, s.ListingURL(company), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for %q: %w", company, err)
	}
	return Parse(html)
}

// Parse extracts review blocks and vote counts from a stories page.
func Parse(html string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse reviews page: %w", err)
	}

	result := &Result{}
	doc.Find(reviewSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			result.Reviews = append(result.Reviews, text)
		}
	})

	doc.Find(upvoteSelector).Each(func(_ int, sel *goquery.Selection) {
		result.Upvotes += parseCount(sel.Text())
	})
	doc.Find(downvoteSelector).Each(func(_ int, sel *goquery.Selection) {
		result.Downvotes += parseCount(sel.Text())
	})

	return result, nil
}

func parseCount(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}
