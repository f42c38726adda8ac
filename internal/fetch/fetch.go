// Package fetch provides generic URL fetching with retry and caching.
// It centralizes the HTTP logic used by the reviews source, the careers
// crawl, and page rewriting.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; MulaLens/1.0)"

// Result holds the response from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves HTML content from a URL. Transient failures (transport
// errors, 5xx, 429) are retried once with a short jittered delay.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	return retry.DoWithData(
		func() (*Result, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
			if err != nil {
				return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
			}
			req.Header.Set("User-Agent", opts.UserAgent)
			for key, value := range opts.Headers {
				req.Header.Set(key, value)
			}

			resp, err := client.Do(req)
			if err != nil {
				return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
			}
			defer func() { _ = resp.Body.Close() }()

			bodyBytes, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
			}

			result := &Result{
				URL:         urlStr,
				HTML:        string(bodyBytes),
				ContentType: resp.Header.Get("Content-Type"),
				StatusCode:  resp.StatusCode,
			}

			if resp.StatusCode != http.StatusOK {
				return result, &Error{
					URL:        urlStr,
					Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
					StatusCode: resp.StatusCode,
				}
			}
			return result, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
}

// isRetryable reports whether an error is worth a second attempt.
// Client errors (4xx other than 429) never are.
func isRetryable(err error) bool {
	fetchErr, ok := err.(*Error)
	if !ok {
		return true
	}
	if fetchErr.StatusCode != 0 {
		return fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode >= 500
	}
	switch fetchErr.Message {
	case "invalid URL", "failed to create request":
		return false
	}
	return true // transport-level failure
}
