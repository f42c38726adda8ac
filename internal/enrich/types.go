// Package enrich resolves a decoded company name to an enrichment
// record: contact links, review summary and sentiment, salary ranges,
// and job openings, assembled from the Gemini API and the review site
// itself. Every external leg fails soft: a single failing data source
// never prevents the others from rendering.
package enrich

// Sentiment is the overall review sentiment for a company.
type Sentiment string

// Sentiment labels.
const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentMixed    Sentiment = "Mixed"
)

// ContactInfo holds the model-sourced contact fields. Every field is
// untrusted text: it may be absent, malformed, or not a URL at all, and
// must pass through Sanitize before use.
type ContactInfo struct {
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Email    string `json:"email,omitempty"`
}

// IsZero reports whether no contact field is set.
func (c ContactInfo) IsZero() bool {
	return c == ContactInfo{}
}

// SalaryEntry is a free-form position/salary pair; no numeric parsing.
type SalaryEntry struct {
	Position    string `json:"position"`
	SalaryRange string `json:"salaryRange"`
}

// JobOpening is a single opening, deduplicated by Link across sources.
type JobOpening struct {
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link"`
}

// Enrichment is the aggregate record for one company name.
type Enrichment struct {
	Company        string        `json:"company"`
	Contact        ContactInfo   `json:"contact"`
	EnglishSummary string        `json:"english_summary,omitempty"`
	BanglaSummary  string        `json:"bangla_summary,omitempty"`
	Sentiment      Sentiment     `json:"sentiment"`
	Salaries       []SalaryEntry `json:"salaries,omitempty"`
	Openings       []JobOpening  `json:"openings,omitempty"`
}

// SentimentFromVotes derives a sentiment label from aggregate vote
// counts. A tie (including zero votes) is Mixed.
func SentimentFromVotes(upvotes, downvotes int) Sentiment {
	switch {
	case upvotes > downvotes:
		return SentimentPositive
	case downvotes > upvotes:
		return SentimentNegative
	default:
		return SentimentMixed
	}
}

// ParseSentiment maps a free-form model label onto a Sentiment,
// defaulting to Mixed.
func ParseSentiment(label string) Sentiment {
	switch {
	case containsFold(label, "positive"):
		return SentimentPositive
	case containsFold(label, "negative"):
		return SentimentNegative
	default:
		return SentimentMixed
	}
}
