// Package research discovers company websites through programmable web
// search. It is the fallback when the model reply carries no website:
// without search credentials the pipeline simply renders the
// search-link badge instead.
package research

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Client wraps the Custom Search service.
type Client struct {
	svc *customsearch.Service
	cx  string
}

// NewClient creates a research client. Both the API key and the search
// engine ID (cx) are required.
func NewClient(ctx context.Context, apiKey, cx string) (*Client, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine ID are required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Client{svc: svc, cx: cx}, nil
}

// DiscoverWebsite attempts to find the company's main website URL by
// searching for "<company> official website" and returning the first hit.
func (c *Client) DiscoverWebsite(ctx context.Context, company string) (string, error) {
	query := fmt.Sprintf("%s official website", company)
	resp, err := c.svc.Cse.List().Context(ctx).Cx(c.cx).Q(query).Num(1).Do()
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no search results found for %s", company)
	}
	return resp.Items[0].Link, nil
}
