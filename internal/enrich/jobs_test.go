package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahsin/mula-lens/internal/fetch"
	"github.com/tahsin/mula-lens/internal/reviews"
)

const careersPage = `<html><body>
	<a href="/careers/backend">Backend Engineer Job</a>
	<a href="https://company.example/careers/qa">QA Analyst Position</a>
	<a href="/about">About us</a>
	<a href="/careers/pm">Product Manager Role</a>
</body></html>`

func TestScanCareerPage(t *testing.T) {
	base, err := url.Parse("https://company.example/")
	require.NoError(t, err)

	jobs := scanCareerPage(careersPage, base)
	require.Len(t, jobs, 3)
	assert.Equal(t, "Backend Engineer Job", jobs[0].Title)
	assert.Equal(t, "https://company.example/careers/backend", jobs[0].Link)
	assert.Equal(t, "https://company.example/careers/qa", jobs[1].Link)
	assert.Equal(t, "https://company.example/careers/pm", jobs[2].Link)
}

func TestCrawlCareers_TriesConventionalPaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/jobs":
			_, _ = w.Write([]byte(`<a href="/jobs/1">Engineer Job</a>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	r, _ := newTestResolver(t, &fakeLLM{}, server.URL)
	jobs := r.crawlCareers(context.Background(), server.URL)

	require.Len(t, jobs, 1)
	assert.Equal(t, server.URL+"/jobs/1", jobs[0].Link)
	// stops at the first path that yields listings
	assert.Equal(t, []string{"/careers", "/career", "/jobs"}, paths)
}

func TestCrawlCareers_BrowserFallbackHeuristic(t *testing.T) {
	// A client-rendered shell has almost no static text even when its
	// script payload is large.
	shell := `<html><head><script>` + strings.Repeat("chunk();", 200) + `</script></head>` +
		`<body><div id="root"></div></body></html>`
	assert.True(t, fetch.ShouldUseBrowser(pageText(shell)))

	// A static page with real prose but no job anchors does not warrant
	// a render pass.
	rich := `<html><body><p>` +
		strings.Repeat("We build payment infrastructure for merchants. ", 20) +
		`</p></body></html>`
	assert.False(t, fetch.ShouldUseBrowser(pageText(rich)))
}

func TestCrawlCareers_NoWebsite(t *testing.T) {
	site := newStoriesServer(t)
	r, _ := newTestResolver(t, &fakeLLM{}, site.URL)
	assert.Nil(t, r.crawlCareers(context.Background(), ""))
}

func TestMergeOpenings_DeduplicatesByLink(t *testing.T) {
	local := []JobOpening{
		{Title: "Crawled Engineer", Link: "https://x.example/jobs/1"},
		{Title: "Crawled QA", Link: "https://x.example/jobs/2"},
	}
	ai := []JobOpening{
		{Title: "AI Engineer", Location: "Dhaka", Link: "https://x.example/jobs/1"},
		{Title: "AI PM", Link: "https://x.example/jobs/3"},
	}

	merged := mergeOpenings(local, ai)
	require.Len(t, merged, 3)

	// last write wins for the shared link, order is first-seen
	assert.Equal(t, "AI Engineer", merged[0].Title)
	assert.Equal(t, "Crawled QA", merged[1].Title)
	assert.Equal(t, "AI PM", merged[2].Title)
}

func TestMergeOpenings_SkipsEmptyLinks(t *testing.T) {
	merged := mergeOpenings([]JobOpening{{Title: "No link"}})
	assert.Empty(t, merged)
}

func TestAIOpenings_NormalizesRelativeLinks(t *testing.T) {
	client := &fakeLLM{
		jobsReply: `[{"title":"SE","link":"/openings/se"},{"title":"PM","link":"https://other.example/pm"}]`,
	}
	st := newMemStore()
	r, err := NewResolver(Options{
		LLM:     client,
		Store:   st,
		Reviews: reviews.NewSource("https://example.com", nil),
	})
	require.NoError(t, err)

	jobs := r.aiOpenings(context.Background(), "X", "https://x.example")
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://x.example/openings/se", jobs[0].Link)
	assert.Equal(t, "https://other.example/pm", jobs[1].Link)
}

func TestAIOpenings_RelativeLinksWithoutWebsiteAreDropped(t *testing.T) {
	client := &fakeLLM{
		jobsReply: `[{"title":"SE","link":"/openings/se"},{"title":"PM","link":"https://other.example/pm"}]`,
	}
	st := newMemStore()
	r, err := NewResolver(Options{
		LLM:     client,
		Store:   st,
		Reviews: reviews.NewSource("https://example.com", nil),
	})
	require.NoError(t, err)

	jobs := r.aiOpenings(context.Background(), "X", "")
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://other.example/pm", jobs[0].Link)
}
