// Package enrich - summary.go summarizes reviews and derives sentiment.
package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/tahsin/mula-lens/internal/prompts"
)

var (
	enSectionRe   = regexp.MustCompile(`(?s)\[English Summary\]\s*(.*?)\s*\[Bangla Summary\]`)
	bnSectionRe   = regexp.MustCompile(`(?s)\[Bangla Summary\]\s*(.*?)\s*Sentiment:`)
	sentimentRe   = regexp.MustCompile(`(?i)Sentiment:\s*(Positive|Negative|Mixed)`)
	noReviewsText = "No reviews found for this company yet."
)

// summarizeReviews fetches the company's review blocks and asks the
// model for an English summary, a Bangla translation, and a sentiment
// label, in one call. Vote counts from the page are the sentiment
// fallback when the label is missing or the model call fails.
func (r *Resolver) summarizeReviews(ctx context.Context, name string) (en, bn string, sentiment Sentiment) {
	result, err := r.reviews.Fetch(ctx, name)
	if err != nil {
		r.logf("[ENRICH] reviews fetch failed for %q: %v", name, err)
		return "", "", SentimentMixed
	}

	if len(result.Reviews) == 0 {
		return noReviewsText, "", SentimentFromVotes(result.Upvotes, result.Downvotes)
	}

	prompt := prompts.Format(prompts.MustGet("enrichment.json", "summary_sentiment"),
		map[string]string{"Comments": strings.Join(result.Reviews, "\n\n")})

	reply, err := r.llm.GenerateText(ctx, prompt)
	if err != nil {
		r.logf("[ENRICH] summary request failed for %q: %v", name, err)
		return "", "", SentimentFromVotes(result.Upvotes, result.Downvotes)
	}

	en, bn, sentiment = parseSummaryReply(reply)
	if sentiment == "" {
		sentiment = SentimentFromVotes(result.Upvotes, result.Downvotes)
	}
	return en, bn, sentiment
}

// parseSummaryReply splits the three-section reply. A missing sentiment
// label is reported as the empty string so the caller can fall back to
// vote counts.
func parseSummaryReply(reply string) (en, bn string, sentiment Sentiment) {
	if m := enSectionRe.FindStringSubmatch(reply); m != nil {
		en = strings.TrimSpace(m[1])
	}
	if m := bnSectionRe.FindStringSubmatch(reply); m != nil {
		bn = strings.TrimSpace(m[1])
	}
	if m := sentimentRe.FindStringSubmatch(reply); m != nil {
		sentiment = ParseSentiment(m[1])
	}
	return en, bn, sentiment
}
