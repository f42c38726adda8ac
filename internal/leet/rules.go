// Package leet decodes leet-speak obfuscated company names into plain text.
package leet

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// Rule is a single substitution: every match of Pattern is replaced by
// Replacement. Rules are applied strictly in slice order; structural
// multi-character patterns must come before single-character digit and
// symbol patterns, because a structural match consumes characters that a
// later rule would otherwise rewrite incorrectly.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// ruleSpec is the on-disk form of a Rule for custom rule files.
type ruleSpec struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// DefaultRules returns the built-in substitution table. The ordering is
// load-bearing: do not reorder without checking the structural patterns.
func DefaultRules() []Rule {
	return compileRules([]ruleSpec{
		// structural / multi-char first
		{`><`, "x"},
		{`(?i)>\s*k`, "x"},
		{`(?i)\|_?\|`, "k"},
		{`(?i)l<`, "k"},
		{`<`, "k"},

		// digits
		{`8`, "b"},
		{`2`, "s"},
		{`1`, "l"},
		{`3`, "e"},
		{`4`, "a"},
		{`5`, "s"},
		{`6`, "a"},
		{`0`, "o"},
		{`7`, "t"},

		// symbols
		{`\$`, "s"},
		{`@`, "a"},
		{`!`, "i"},
	})
}

// LoadRules reads a custom rule file: a JSON array of
// {"pattern": ..., "replacement": ...} objects, applied in file order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	var specs []ruleSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern at index %d (%q): %w", i, spec.Pattern, err)
		}
		rules = append(rules, Rule{Pattern: re, Replacement: spec.Replacement})
	}
	return rules, nil
}

func compileRules(specs []ruleSpec) []Rule {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		rules = append(rules, Rule{
			Pattern:     regexp.MustCompile(spec.Pattern),
			Replacement: spec.Replacement,
		})
	}
	return rules
}
