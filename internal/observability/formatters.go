// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/tahsin/mula-lens/internal/enrich"
	"github.com/tahsin/mula-lens/internal/reviews"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDecoded outputs an obfuscated name next to its decoded form.
func (p *Printer) PrintDecoded(raw, decoded string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Raw:      %s\n", raw))
	sb.WriteString(fmt.Sprintf("Decoded:  %s", decoded))
	p.printBox("DECODED COMPANY NAME", sb.String())
}

// PrintEnrichment outputs a human-readable summary of an enrichment record.
func (p *Printer) PrintEnrichment(e *enrich.Enrichment) {
	if e == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", e.Company))
	sb.WriteString(fmt.Sprintf("Sentiment:  %s\n", e.Sentiment))

	if !e.Contact.IsZero() {
		sb.WriteString("\nContact:\n")
		for _, pair := range [][2]string{
			{"Website", e.Contact.Website},
			{"LinkedIn", e.Contact.LinkedIn},
			{"Facebook", e.Contact.Facebook},
			{"GitHub", e.Contact.GitHub},
			{"Email", e.Contact.Email},
		} {
			if pair[1] != "" {
				sb.WriteString(fmt.Sprintf("  %-9s %s\n", pair[0]+":", pair[1]))
			}
		}
	}

	if e.EnglishSummary != "" {
		sb.WriteString("\nSummary:\n")
		summary := e.EnglishSummary
		if len(summary) > 150 {
			summary = summary[:147] + "..."
		}
		for _, line := range wrap(summary, boxWidth-6) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	if len(e.Salaries) > 0 {
		sb.WriteString("\nSalaries:\n")
		count := min(len(e.Salaries), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", e.Salaries[i].Position, e.Salaries[i].SalaryRange))
		}
		if len(e.Salaries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(e.Salaries)-maxItemsToShow))
		}
	}

	if len(e.Openings) > 0 {
		sb.WriteString("\nOpen Positions:\n")
		count := min(len(e.Openings), maxItemsToShow)
		for i := 0; i < count; i++ {
			o := e.Openings[i]
			sb.WriteString(fmt.Sprintf("  • %s", o.Title))
			if o.Location != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", o.Location))
			}
			sb.WriteString("\n")
		}
		if len(e.Openings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(e.Openings)-maxItemsToShow))
		}
	}

	p.printBox("COMPANY ENRICHMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReviews outputs the fetched review snippets with vote totals.
func (p *Printer) PrintReviews(set *reviews.Result) {
	if set == nil || len(set.Reviews) == 0 {
		p.printBox("REVIEWS", "No reviews found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d reviews (▲%d ▼%d):\n\n", len(set.Reviews), set.Upvotes, set.Downvotes))

	count := min(len(set.Reviews), maxItemsToShow)
	for i := 0; i < count; i++ {
		text := set.Reviews[i]
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", text))
	}

	if len(set.Reviews) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more reviews", len(set.Reviews)-maxItemsToShow))
	}

	p.printBox("REVIEWS", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap splits text into lines no longer than width, breaking on spaces.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
