// Package enrich - translate.go exposes the model-backed translation
// used by the summary leg and the CLI.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/prompts"
)

// Translate translates text into the given language ("English" or
// "Bangla"). Unlike the pipeline legs this surfaces errors, because its
// CLI caller wants to report them.
func (r *Resolver) Translate(ctx context.Context, text, language string) (string, error) {
	if r.llm == nil {
		return "", llm.ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("enrich: nothing to translate")
	}

	prompt := prompts.Format(prompts.MustGet("enrichment.json", "translate"),
		map[string]string{"Language": language, "Text": text})

	reply, err := r.llm.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
