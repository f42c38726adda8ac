// Package badge renders enrichment data as HTML fragments appended to a
// container selection. Rendering is idempotent: re-running against the same
// container never duplicates a link, sentiment marker, or data block.
package badge

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tahsin/mula-lens/internal/enrich"
)

// SearchURL is the engine used for the fallback lookup badge when no
// official website could be determined.
const SearchURL = "https://duckduckgo.com/?q="

// Render appends badges for every populated field of e to container.
// Links that already exist (matched by href) are skipped, as is the
// sentiment marker when one is present.
func Render(container *goquery.Selection, name string, e *enrich.Enrichment) {
	if container == nil || e == nil {
		return
	}

	existing := existingHrefs(container)

	appendLink(container, existing, iconWeb, "Website", e.Contact.Website)
	appendLink(container, existing, iconLinkedIn, "LinkedIn", e.Contact.LinkedIn)
	appendLink(container, existing, iconFacebook, "Facebook", e.Contact.Facebook)
	appendLink(container, existing, iconGitHub, "GitHub", e.Contact.GitHub)
	if e.Contact.Email != "" {
		appendLink(container, existing, iconEmail, "Email", "mailto:"+e.Contact.Email)
	}
	if e.Contact.Website == "" && name != "" {
		appendLink(container, existing, iconSearch, "Search", searchLink(name))
	}

	renderSentiment(container, e.Sentiment)
	renderSalaries(container, e.Salaries)
	renderOpenings(container, existing, e.Openings)
}

func searchLink(name string) string {
	return SearchURL + url.QueryEscape(name+" official site")
}

// existingHrefs collects the normalized hrefs already present under
// container so repeated renders can skip them.
func existingHrefs(container *goquery.Selection) map[string]bool {
	seen := make(map[string]bool)
	container.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			seen[normalizeHref(href)] = true
		}
	})
	return seen
}

func normalizeHref(href string) string {
	return strings.TrimRight(strings.TrimSpace(strings.ToLower(href)), "/")
}

func appendLink(container *goquery.Selection, seen map[string]bool, icon, label, href string) {
	if href == "" {
		return
	}
	key := normalizeHref(href)
	if seen[key] {
		return
	}
	seen[key] = true
	container.AppendHtml(fmt.Sprintf(
		`<a class="mula-badge mula-badge-%s" href="%s" target="_blank" rel="noopener noreferrer" title="%s">%s</a>`,
		icon, html.EscapeString(href), html.EscapeString(label), icons[icon]))
}

func renderSentiment(container *goquery.Selection, s enrich.Sentiment) {
	if container.Find(".mula-sentiment").Length() > 0 {
		return
	}
	icon := iconMixed
	switch s {
	case enrich.SentimentPositive:
		icon = iconPositive
	case enrich.SentimentNegative:
		icon = iconNegative
	}
	container.AppendHtml(fmt.Sprintf(
		`<span class="mula-sentiment mula-sentiment-%s" title="Review sentiment: %s">%s</span>`,
		strings.ToLower(string(s)), html.EscapeString(string(s)), icons[icon]))
}

func renderSalaries(container *goquery.Selection, entries []enrich.SalaryEntry) {
	if len(entries) == 0 || container.Find(".mula-salaries").Length() > 0 {
		return
	}
	var b strings.Builder
	b.WriteString(`<div class="mula-salaries"><h4>Salaries</h4><ul>`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><span class="mula-salary-position">%s</span> <span class="mula-salary-range">%s</span></li>`,
			html.EscapeString(e.Position), html.EscapeString(e.SalaryRange))
	}
	b.WriteString(`</ul></div>`)
	container.AppendHtml(b.String())
}

func renderOpenings(container *goquery.Selection, seen map[string]bool, openings []enrich.JobOpening) {
	if len(openings) == 0 || container.Find(".mula-openings").Length() > 0 {
		return
	}
	var b strings.Builder
	b.WriteString(`<div class="mula-openings"><h4>Open Positions</h4><ul>`)
	rendered := 0
	for _, o := range openings {
		if o.Link == "" || seen[normalizeHref(o.Link)] {
			continue
		}
		seen[normalizeHref(o.Link)] = true
		title := o.Title
		if o.Location != "" {
			title = title + " (" + o.Location + ")"
		}
		fmt.Fprintf(&b, `<li><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></li>`,
			html.EscapeString(o.Link), html.EscapeString(title))
		rendered++
	}
	b.WriteString(`</ul></div>`)
	if rendered > 0 {
		container.AppendHtml(b.String())
	}
}
