// Package schemas provides JSON Schema validation for AI-sourced payloads.
// Model replies are untrusted: even when they parse as JSON, the shape may
// be wrong. Every structured reply is checked against an embedded schema
// before the pipeline accepts it.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema names accepted by Validate.
const (
	ContactInfo   = "contact_info"
	SalaryEntries = "salary_entries"
	JobOpenings   = "job_openings"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError reports schema violations with field paths.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:", ve.Schema)
	for _, err := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks a JSON document against the named embedded schema.
// Returns a *ValidationError when the document does not conform.
func Validate(name string, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate against %s schema: %w", name, err)
	}

	if !result.Valid() {
		ve := &ValidationError{Schema: name}
		for _, desc := range result.Errors() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return ve
	}
	return nil
}

func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, exists := compiled[name]; exists {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %q: %w", name, err)
	}

	compiled[name] = schema
	return schema, nil
}
