package badge

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahsin/mula-lens/internal/enrich"
	"github.com/tahsin/mula-lens/internal/reviews"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[name]
	return data, ok, nil
}

func (m *memStore) Set(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = data
	return nil
}

func (m *memStore) Close() error { return nil }

func storedResolver(t *testing.T, records ...*enrich.Enrichment) *enrich.Resolver {
	t.Helper()
	st := &memStore{data: make(map[string][]byte)}
	for _, record := range records {
		data, err := json.Marshal(record)
		require.NoError(t, err)
		require.NoError(t, st.Set(context.Background(), record.Company, data))
	}
	resolver, err := enrich.NewResolver(enrich.Options{
		Store:   st,
		Reviews: reviews.NewSource("", nil),
	})
	require.NoError(t, err)
	return resolver
}

func TestDecorate(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
<div class="company-name"><span>Betopia</span></div>
<div class="company-name"><span>Rank</span></div>
</body></html>`))
	require.NoError(t, err)

	resolver := storedResolver(t,
		&enrich.Enrichment{
			Company:   "Betopia",
			Contact:   enrich.ContactInfo{Website: "https://betopia.com"},
			Sentiment: enrich.SentimentPositive,
		},
		&enrich.Enrichment{Company: "Rank", Sentiment: enrich.SentimentMixed},
	)

	decorated := Decorate(context.Background(), doc, resolver, "")

	assert.Equal(t, 2, decorated)
	first := doc.Find(".company-name").First()
	assert.Equal(t, 1, first.Find("a.mula-badge-web").Length())
	assert.Equal(t, 1, first.Find(".mula-sentiment-positive").Length())

	second := doc.Find(".company-name").Last()
	assert.Equal(t, 1, second.Find("a.mula-badge-search").Length(), "no website falls back to search badge")
}

func TestDecorateUnresolvableSkipped(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="company-name"><span>Unknown Co</span></div>`))
	require.NoError(t, err)

	// Empty store and nil model: resolving fails with a missing API key.
	resolver := storedResolver(t)

	decorated := Decorate(context.Background(), doc, resolver, "")
	assert.Equal(t, 0, decorated)
	assert.Equal(t, 0, doc.Find("a").Length())
}

func TestDecorateNilResolver(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="company-name"><span>Betopia</span></div>`))
	require.NoError(t, err)

	assert.Equal(t, 0, Decorate(context.Background(), doc, nil, ""))
}
