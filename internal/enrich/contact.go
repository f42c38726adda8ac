// Package enrich - contact.go fetches model-sourced contact fields.
package enrich

import (
	"context"
	"encoding/json"

	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/prompts"
	"github.com/tahsin/mula-lens/internal/schemas"
)

// fetchContactInfo asks the model for the company's contact fields.
// Any failure (transport, parse, schema) yields an empty ContactInfo;
// the remaining pipeline legs are unaffected.
func (r *Resolver) fetchContactInfo(ctx context.Context, name string) ContactInfo {
	prompt := prompts.Format(prompts.MustGet("enrichment.json", "contact_info"),
		map[string]string{"Company": name})

	reply, err := r.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		r.logf("[ENRICH] contact info request failed for %q: %v", name, err)
		return ContactInfo{}
	}

	cleaned := llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.ContactInfo, []byte(cleaned)); err != nil {
		r.logf("[ENRICH] contact info reply failed validation for %q: %v (raw: %s)", name, err, cleaned)
		return ContactInfo{}
	}

	var info ContactInfo
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		r.logf("[ENRICH] failed to parse contact info for %q: %v (raw: %s)", name, err, cleaned)
		return ContactInfo{}
	}

	return info.Sanitize()
}
