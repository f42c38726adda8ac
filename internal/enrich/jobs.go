// Package enrich - jobs.go combines a direct careers-page crawl with
// model-sourced openings, deduplicated by link.
package enrich

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tahsin/mula-lens/internal/fetch"
	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/prompts"
	"github.com/tahsin/mula-lens/internal/schemas"
)

// careerPaths are the conventional career-page locations tried, in
// order, under the company website.
var careerPaths = []string{"careers", "career", "jobs", "openings"}

// jobLinkText matches anchor text that looks like a job listing.
var jobLinkText = regexp.MustCompile(`(?i)\b(job|opening|position|role)\b`)

const browserRenderTimeout = 30 * time.Second

// fetchOpenings merges the direct crawl with the model-sourced listing.
// Both sources are best-effort; with no website only the model source
// runs. Deduplication is by absolute link, last write wins.
func (r *Resolver) fetchOpenings(ctx context.Context, name, website string) []JobOpening {
	local := r.crawlCareers(ctx, website)
	ai := r.aiOpenings(ctx, name, website)
	return mergeOpenings(local, ai)
}

// crawlCareers tries each conventional career path under the website and
// returns the listings from the first path that yields any.
func (r *Resolver) crawlCareers(ctx context.Context, website string) []JobOpening {
	if website == "" {
		return nil
	}
	base, err := url.Parse(strings.TrimRight(website, "/") + "/")
	if err != nil {
		return nil
	}

	for _, path := range careerPaths {
		pageURL := base.ResolveReference(&url.URL{Path: path}).String()
		html, err := r.pages.Fetch(ctx, pageURL, nil)
		if err != nil {
			continue // try the next conventional path
		}

		jobs := scanCareerPage(html, base)
		if len(jobs) == 0 && r.useBrowser && fetch.ShouldUseBrowser(pageText(html)) {
			// Listings rendered client-side need a real browser. A page
			// with plenty of static text but no job anchors is assumed
			// to genuinely have no listings at this path.
			if rendered, err := fetch.WithBrowser(ctx, pageURL, browserRenderTimeout, r.verbose); err == nil {
				jobs = scanCareerPage(rendered, base)
			}
		}
		if len(jobs) > 0 {
			return jobs
		}
	}
	return nil
}

// pageText extracts the visible text of a page for the browser-fallback
// heuristic, ignoring scripts and styles.
func pageText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}

// scanCareerPage extracts job-looking anchors from a careers page,
// resolving relative links against base.
func scanCareerPage(html string, base *url.URL) []JobOpening {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var jobs []JobOpening
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" || !jobLinkText.MatchString(title) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		jobs = append(jobs, JobOpening{
			Title: title,
			Link:  base.ResolveReference(ref).String(),
		})
	})
	return jobs
}

// aiOpenings asks the model for current openings. Relative links in the
// reply are normalized against the website.
func (r *Resolver) aiOpenings(ctx context.Context, name, website string) []JobOpening {
	prompt := prompts.Format(prompts.MustGet("enrichment.json", "job_openings"),
		map[string]string{"Company": name, "Website": website})

	reply, err := r.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		r.logf("[ENRICH] openings request failed for %q: %v", name, err)
		return nil
	}

	jsonText := llm.ExtractJSONArray(reply)
	if err := schemas.Validate(schemas.JobOpenings, []byte(jsonText)); err != nil {
		r.logf("[ENRICH] openings reply failed validation for %q: %v (raw: %s)", name, err, jsonText)
		return nil
	}

	var openings []JobOpening
	if err := json.Unmarshal([]byte(jsonText), &openings); err != nil {
		r.logf("[ENRICH] failed to parse openings for %q: %v (raw: %s)", name, err, jsonText)
		return nil
	}

	base, err := url.Parse(website)
	if err != nil || website == "" {
		base = nil
	}
	out := openings[:0]
	for _, job := range openings {
		ref, err := url.Parse(job.Link)
		if err != nil || job.Link == "" {
			continue
		}
		if base != nil {
			job.Link = base.ResolveReference(ref).String()
		} else if !ref.IsAbs() {
			continue // relative link with nothing to resolve against
		}
		out = append(out, job)
	}
	return out
}

// mergeOpenings deduplicates by link, preserving first-seen order while
// letting a later entry for the same link overwrite the earlier one.
func mergeOpenings(lists ...[]JobOpening) []JobOpening {
	byLink := make(map[string]JobOpening)
	var order []string
	for _, list := range lists {
		for _, job := range list {
			if job.Link == "" {
				continue
			}
			if _, seen := byLink[job.Link]; !seen {
				order = append(order, job.Link)
			}
			byLink[job.Link] = job
		}
	}

	merged := make([]JobOpening, 0, len(order))
	for _, link := range order {
		merged = append(merged, byLink[link])
	}
	return merged
}
