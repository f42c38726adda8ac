// Package rewrite decodes obfuscated company names in place across an HTML
// page. Only text nodes under a configured set of selectors are touched so
// markup, attributes, and scripts pass through untouched.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tahsin/mula-lens/internal/leet"
)

// DefaultSelectors covers the places company names appear on review listing
// and detail pages: headings, review bodies, badges, and grid links.
var DefaultSelectors = []string{
	".company-name span",
	".post-title",
	".company-review",
	".badge h4",
	"h4.badge",
	".k-master-row a",
	"td > a.k-link.text-primary.fw-semibold",
	"a.k-link.text-primary.fw-semibold",
	"tr.k-master-row td > a.k-link.text-primary.fw-semibold",
	".col-12 h3",
}

// Rewriter applies a leet decoder to the text content of matched elements.
type Rewriter struct {
	decoder   *leet.Decoder
	selectors []string
}

// New returns a Rewriter using the given decoder. A nil decoder gets the
// default rule set, and nil selectors fall back to DefaultSelectors.
func New(decoder *leet.Decoder, selectors []string) *Rewriter {
	if decoder == nil {
		decoder = leet.NewDecoder(nil, leet.CaseTitle)
	}
	if selectors == nil {
		selectors = DefaultSelectors
	}
	return &Rewriter{decoder: decoder, selectors: selectors}
}

// Document decodes all matching text nodes in doc and returns how many
// nodes actually changed.
func (r *Rewriter) Document(doc *goquery.Document) int {
	changed := 0
	for _, sel := range r.selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			for _, node := range s.Nodes {
				changed += r.decodeTextNodes(node)
			}
		})
	}
	return changed
}

// Page parses src, decodes matching text, strips ad containers, and
// returns the serialized result with the number of rewritten nodes.
func (r *Rewriter) Page(src string) (string, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse page: %w", err)
	}
	changed := r.Document(doc)
	RemoveAds(doc)
	out, err := doc.Html()
	if err != nil {
		return "", 0, fmt.Errorf("failed to serialize page: %w", err)
	}
	return out, changed, nil
}

// decodeTextNodes walks the subtree rooted at n, decoding each text node.
// Script, style, and noscript subtrees are skipped.
func (r *Rewriter) decodeTextNodes(n *html.Node) int {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return 0
		}
	}
	if n.Type == html.TextNode {
		if strings.TrimSpace(n.Data) == "" {
			return 0
		}
		decoded := r.decoder.Decode(n.Data)
		if decoded != n.Data {
			n.Data = decoded
			return 1
		}
		return 0
	}
	changed := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		changed += r.decodeTextNodes(c)
	}
	return changed
}

// RemoveAds drops any element marked as an advertisement by id, class,
// or aria-label, plus AdSense iframes, returning the number of removed
// elements.
func RemoveAds(doc *goquery.Document) int {
	removed := 0

	doc.Find("[id], [class], [aria-label]").Each(func(_ int, s *goquery.Selection) {
		if s.Is("html, body") {
			return
		}
		if isAdContainer(s) {
			s.Remove()
			removed++
		}
	})

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if strings.HasPrefix(id, "aswift_") || isAdContainer(s) {
			s.Remove()
			removed++
		}
	})

	return removed
}

func isAdContainer(s *goquery.Selection) bool {
	for _, attr := range []string{"id", "class", "aria-label"} {
		if v, ok := s.Attr(attr); ok && strings.Contains(strings.ToLower(v), "advertisement") {
			return true
		}
	}
	return false
}
