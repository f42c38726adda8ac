package leet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CaseStyle selects the casing transform applied after all rules have run.
type CaseStyle string

// Supported casing styles.
const (
	CaseSentence CaseStyle = "sentence"
	CaseTitle    CaseStyle = "title"
	CaseUpper    CaseStyle = "upper"
)

// ParseCaseStyle maps a user-supplied string to a CaseStyle,
// defaulting to title case for unrecognized values.
func ParseCaseStyle(s string) CaseStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sentence":
		return CaseSentence
	case "upper":
		return CaseUpper
	default:
		return CaseTitle
	}
}

// Decoder applies an ordered rule list followed by a single casing pass.
type Decoder struct {
	rules []Rule
	style CaseStyle
}

// NewDecoder creates a Decoder. Nil rules means the built-in table.
func NewDecoder(rules []Rule, style CaseStyle) *Decoder {
	if rules == nil {
		rules = DefaultRules()
	}
	if style == "" {
		style = CaseTitle
	}
	return &Decoder{rules: rules, style: style}
}

// Decode rewrites text with every rule in order (global replacement per
// rule), then applies the decoder's casing style. Always returns a string,
// unchanged when nothing matched.
func (d *Decoder) Decode(text string) string {
	return d.DecodeWithStyle(text, d.style)
}

// DecodeWithStyle is Decode with an explicit casing override.
func (d *Decoder) DecodeWithStyle(text string, style CaseStyle) string {
	result := text
	for _, rule := range d.rules {
		result = rule.Pattern.ReplaceAllString(result, rule.Replacement)
	}

	switch style {
	case CaseSentence:
		return sentenceCase(result)
	case CaseUpper:
		return strings.ToUpper(result)
	default:
		return titleCase(result)
	}
}

var wordStart = regexp.MustCompile(`\b[a-z]`)

// titleCase lowercases the text then uppercases the first letter of every
// word-boundary-delimited alphabetic run.
func titleCase(text string) string {
	return wordStart.ReplaceAllStringFunc(strings.ToLower(text), strings.ToUpper)
}

// sentenceCase lowercases the text then uppercases only the first character.
func sentenceCase(text string) string {
	lowered := strings.ToLower(text)
	r, size := utf8.DecodeRuneInString(lowered)
	if size == 0 {
		return lowered
	}
	return string(unicode.ToUpper(r)) + lowered[size:]
}
