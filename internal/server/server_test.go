package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahsin/mula-lens/internal/enrich"
	"github.com/tahsin/mula-lens/internal/reviews"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
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

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDecode(t *testing.T) {
	s := newTestServer(t, Config{})

	body := strings.NewReader(`{"name":"8etopia"}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/decode", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "8etopia", resp["name"])
	assert.Equal(t, "Betopia", resp["decoded"])
}

func TestDecodeWithStyle(t *testing.T) {
	s := newTestServer(t, Config{})

	body := strings.NewReader(`{"name":"8etopia","style":"upper"}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/decode", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BETOPIA", resp["decoded"])
}

func TestDecodeErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/decode", strings.NewReader("{bad")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/decode", strings.NewReader(`{"name":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichUnconfigured(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/enrich", strings.NewReader(`{"name":"8etopia"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEnrichMissingAPIKey(t *testing.T) {
	resolver, err := enrich.NewResolver(enrich.Options{
		Store:   newMemStore(),
		Reviews: reviews.NewSource("", nil),
	})
	require.NoError(t, err)

	s := newTestServer(t, Config{Resolver: resolver})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/enrich", strings.NewReader(`{"name":"8etopia"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestEnrichServesStoredRecord(t *testing.T) {
	st := newMemStore()
	record, err := json.Marshal(&enrich.Enrichment{
		Company:   "Betopia",
		Contact:   enrich.ContactInfo{Website: "https://betopia.com"},
		Sentiment: enrich.SentimentPositive,
	})
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), "Betopia", record))

	resolver, err := enrich.NewResolver(enrich.Options{
		Store:   st,
		Reviews: reviews.NewSource("", nil),
	})
	require.NoError(t, err)

	s := newTestServer(t, Config{Resolver: resolver})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/enrich", strings.NewReader(`{"name":"8etopia"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got enrich.Enrichment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Betopia", got.Company)
	assert.Equal(t, "https://betopia.com", got.Contact.Website)
}

func TestRewrite(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="company-name"><span>8etopia</span></div></body></html>`))
	}))
	defer remote.Close()

	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/rewrite?url="+remote.URL, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Betopia")
	assert.Equal(t, "1", rec.Header().Get("X-Rewritten-Nodes"))
}

func TestRewriteErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/rewrite", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/rewrite?url=ftp%3A%2F%2Fexample.com", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/enrich", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitHeaders(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/decode", strings.NewReader(`{"name":"x"}`)))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
}
