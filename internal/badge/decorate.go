package badge

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tahsin/mula-lens/internal/enrich"
)

// DefaultNameSelector locates the company-name containers badges attach to.
const DefaultNameSelector = ".company-name"

// Decorate resolves every company name found under nameSelector and
// renders its badges into the surrounding container. The name is taken
// from the container's span when present, otherwise its own text; names
// are expected to be decoded already. Failed resolves are logged and
// skipped. Returns the number of containers decorated.
func Decorate(ctx context.Context, doc *goquery.Document, resolver *enrich.Resolver, nameSelector string) int {
	if resolver == nil {
		return 0
	}
	if nameSelector == "" {
		nameSelector = DefaultNameSelector
	}

	decorated := 0
	doc.Find(nameSelector).Each(func(_ int, container *goquery.Selection) {
		name := strings.TrimSpace(container.Find("span").First().Text())
		if name == "" {
			name = strings.TrimSpace(container.Text())
		}
		if name == "" {
			return
		}

		record, err := resolver.Resolve(ctx, name)
		if err != nil {
			log.Printf("[BADGE] skipping %q: %v", name, err)
			return
		}

		Render(container, name, record)
		decorated++
	})
	return decorated
}
