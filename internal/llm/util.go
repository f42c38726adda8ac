// Package llm - util.go provides shared utilities for model reply processing.
package llm

import (
	"errors"
	"strings"
)

// ErrMissingAPIKey indicates no API key was configured. The enrichment
// pipeline checks for this before issuing any network call.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// CleanJSONBlock removes markdown code block wrappers from JSON replies.
// Models often wrap JSON in ```json ... ``` blocks even when instructed
// not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractJSONArray strips fences and isolates the first bracketed [...]
// span in the text. Models asked for a bare array sometimes prepend
// commentary; the bracket scan defends against that. If no bracketed
// span is found the cleaned text is returned as-is.
func ExtractJSONArray(text string) string {
	t := CleanJSONBlock(text)

	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		return strings.TrimSpace(t[start : end+1])
	}
	return t
}
