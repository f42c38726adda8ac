package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/reviews"
)

// fakeLLM routes prompts to canned replies by prompt content.
type fakeLLM struct {
	mu        sync.Mutex
	textCalls int32
	jsonCalls int32

	contactReply string
	summaryReply string
	salaryReply  string
	jobsReply    string
	err          error
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string) (string, error) {
	atomic.AddInt32(&f.textCalls, 1)
	if f.err != nil {
		return "", f.err
	}
	return f.summaryReply, nil
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.jsonCalls, 1)
	if f.err != nil {
		return "", f.err
	}
	switch {
	case strings.Contains(prompt, "job openings"):
		return f.jobsReply, nil
	case strings.Contains(prompt, "salary range"):
		return f.salaryReply, nil
	default:
		return f.contactReply, nil
	}
}

func (f *fakeLLM) Close() error { return nil }

// memStore is an in-memory Store for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

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

const testStoriesPage = `<html><body>
	<p class="company-review">Solid engineering culture.</p>
	<span class="upvote-count">10</span>
	<span class="downvote-count">2</span>
</body></html>`

const testSummaryReply = `[English Summary]
Engineers are happy overall.

[Bangla Summary]
Bangla text here.

Sentiment: Positive`

func newTestResolver(t *testing.T, client llm.Client, siteURL string) (*Resolver, *memStore) {
	t.Helper()
	st := newMemStore()
	r, err := NewResolver(Options{
		LLM:     client,
		Store:   st,
		Reviews: reviews.NewSource(siteURL, nil),
	})
	require.NoError(t, err)
	return r, st
}

func newStoriesServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testStoriesPage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolve_AssemblesFullRecord(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `{"website":"betopia.example","linkedin":"https://linkedin.com/company/betopia","email":"hr@betopia.example"}`,
		summaryReply: testSummaryReply,
		salaryReply:  `[{"position":"Software Engineer","salaryRange":"80k-120k"}]`,
		jobsReply:    `[{"title":"Backend Engineer","location":"Dhaka","link":"https://betopia.example/jobs/1"}]`,
	}
	r, st := newTestResolver(t, client, site.URL)

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)

	assert.Equal(t, "Betopia", e.Company)
	assert.Equal(t, "https://betopia.example", e.Contact.Website)
	assert.Equal(t, "https://linkedin.com/company/betopia", e.Contact.LinkedIn)
	assert.Equal(t, "hr@betopia.example", e.Contact.Email)
	assert.Equal(t, "Engineers are happy overall.", e.EnglishSummary)
	assert.Equal(t, "Bangla text here.", e.BanglaSummary)
	assert.Equal(t, SentimentPositive, e.Sentiment)
	require.Len(t, e.Salaries, 1)
	assert.Equal(t, "Software Engineer", e.Salaries[0].Position)
	require.Len(t, e.Openings, 1)
	assert.Equal(t, "https://betopia.example/jobs/1", e.Openings[0].Link)

	// record was persisted
	_, found, err := st.Get(context.Background(), "Betopia")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResolve_CacheHitMakesNoNetworkCalls(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `{}`,
		summaryReply: testSummaryReply,
		salaryReply:  `[]`,
		jobsReply:    `[]`,
	}
	r, _ := newTestResolver(t, client, site.URL)

	ctx := context.Background()
	first, err := r.Resolve(ctx, "Betopia")
	require.NoError(t, err)

	callsAfterFirst := atomic.LoadInt32(&client.jsonCalls) + atomic.LoadInt32(&client.textCalls)

	second, err := r.Resolve(ctx, "Betopia")
	require.NoError(t, err)
	assert.Equal(t, first.Sentiment, second.Sentiment)
	assert.Equal(t, callsAfterFirst, atomic.LoadInt32(&client.jsonCalls)+atomic.LoadInt32(&client.textCalls))
}

func TestResolve_LLMFailureYieldsNeutralFallbacks(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{err: errors.New("boom")}
	r, _ := newTestResolver(t, client, site.URL)

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)

	assert.True(t, e.Contact.IsZero())
	// reviews page had 10 up / 2 down, so the vote fallback is Positive
	assert.Equal(t, SentimentPositive, e.Sentiment)
	assert.Empty(t, e.Salaries)
	assert.Empty(t, e.Openings)
}

func TestResolve_ReviewsSiteDownStillResolves(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer down.Close()

	client := &fakeLLM{
		contactReply: `{"website":"https://betopia.example"}`,
		salaryReply:  `[]`,
		jobsReply:    `[]`,
	}
	r, _ := newTestResolver(t, client, down.URL)

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)
	assert.Equal(t, "https://betopia.example", e.Contact.Website)
	assert.Equal(t, SentimentMixed, e.Sentiment)
	assert.Empty(t, e.EnglishSummary)
}

func TestResolve_MalformedRepliesYieldNeutralResults(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `this is not json`,
		summaryReply: `free-form chatter with no sections`,
		salaryReply:  `definitely not an array`,
		jobsReply:    `["just", "strings"]`,
	}
	r, _ := newTestResolver(t, client, site.URL)

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)
	assert.True(t, e.Contact.IsZero())
	assert.Empty(t, e.Salaries)
	assert.Empty(t, e.Openings)
	// unparseable label falls back to vote counts
	assert.Equal(t, SentimentPositive, e.Sentiment)
}

func TestResolve_InvalidContactURLsAreDropped(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `{"website":"https://betopia.example","linkedin":"not a url","github":"%%%","email":"not-an-email"}`,
		summaryReply: testSummaryReply,
		salaryReply:  `[]`,
		jobsReply:    `[]`,
	}
	r, _ := newTestResolver(t, client, site.URL)

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)
	assert.Equal(t, "https://betopia.example", e.Contact.Website)
	assert.Empty(t, e.Contact.LinkedIn)
	assert.Empty(t, e.Contact.GitHub)
	assert.Empty(t, e.Contact.Email)
}

func TestResolve_MissingAPIKeyShortCircuits(t *testing.T) {
	site := newStoriesServer(t)
	r, _ := newTestResolver(t, nil, site.URL)

	_, err := r.Resolve(context.Background(), "Betopia")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestResolve_EmptyName(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{}
	r, _ := newTestResolver(t, client, site.URL)

	_, err := r.Resolve(context.Background(), "")
	require.Error(t, err)
}

func TestResolve_ConcurrentResolvesShareOneAssembly(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `{}`,
		summaryReply: testSummaryReply,
		salaryReply:  `[]`,
		jobsReply:    `[]`,
	}
	r, _ := newTestResolver(t, client, site.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve(context.Background(), "Betopia")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// one assembly = contact + salary + openings JSON calls and one
	// summary text call
	assert.Equal(t, int32(3), atomic.LoadInt32(&client.jsonCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.textCalls))
}

func TestResolve_CorruptStoredRecordIsRefetched(t *testing.T) {
	site := newStoriesServer(t)
	client := &fakeLLM{
		contactReply: `{}`,
		summaryReply: testSummaryReply,
		salaryReply:  `[]`,
		jobsReply:    `[]`,
	}
	r, st := newTestResolver(t, client, site.URL)

	require.NoError(t, st.Set(context.Background(), "Betopia", []byte("{corrupt")))

	e, err := r.Resolve(context.Background(), "Betopia")
	require.NoError(t, err)
	assert.Equal(t, SentimentPositive, e.Sentiment)
}
