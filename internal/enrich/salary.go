// Package enrich - salary.go fetches model-sourced salary ranges.
package enrich

import (
	"context"
	"encoding/json"

	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/prompts"
	"github.com/tahsin/mula-lens/internal/schemas"
)

// fetchSalaries asks the model for position/salary pairs. Any failure
// yields an empty slice.
func (r *Resolver) fetchSalaries(ctx context.Context, name string) []SalaryEntry {
	prompt := prompts.Format(prompts.MustGet("enrichment.json", "salary_info"),
		map[string]string{"Company": name})

	reply, err := r.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		r.logf("[ENRICH] salary request failed for %q: %v", name, err)
		return nil
	}

	jsonText := llm.ExtractJSONArray(reply)
	if err := schemas.Validate(schemas.SalaryEntries, []byte(jsonText)); err != nil {
		r.logf("[ENRICH] salary reply failed validation for %q: %v (raw: %s)", name, err, jsonText)
		return nil
	}

	var entries []SalaryEntry
	if err := json.Unmarshal([]byte(jsonText), &entries); err != nil {
		r.logf("[ENRICH] failed to parse salary info for %q: %v (raw: %s)", name, err, jsonText)
		return nil
	}
	return entries
}
