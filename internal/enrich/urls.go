// Package enrich - urls.go normalizes and validates untrusted link fields.
package enrich

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NormalizeURL coerces an untrusted string into a canonical https URL.
// Schemeless values get an https:// prefix; anything that still fails
// strict URL validation is dropped (ok == false).
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	if err := validate.Var(raw, "url"); err != nil {
		return "", false
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || !strings.Contains(parsed.Host, ".") {
		return "", false
	}
	return parsed.String(), true
}

// ValidEmail reports whether the string is a well-formed email address.
func ValidEmail(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	return validate.Var(raw, "email") == nil
}

// Sanitize validates every contact field in place: URL fields are
// normalized or cleared, the email field is cleared unless well-formed.
func (c ContactInfo) Sanitize() ContactInfo {
	out := ContactInfo{}
	if u, ok := NormalizeURL(c.Website); ok {
		out.Website = u
	}
	if u, ok := NormalizeURL(c.LinkedIn); ok {
		out.LinkedIn = u
	}
	if u, ok := NormalizeURL(c.Facebook); ok {
		out.Facebook = u
	}
	if u, ok := NormalizeURL(c.GitHub); ok {
		out.GitHub = u
	}
	if ValidEmail(c.Email) {
		out.Email = strings.TrimSpace(c.Email)
	}
	return out
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
