package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`},
		{"fenced array", "```json\n[1, 2]\n```", `[1, 2]`},
		{"leading commentary", `Here are the results: [{"title": "SE"}]`, `[{"title": "SE"}]`},
		{"trailing commentary", `[{"a":1}] hope that helps`, `[{"a":1}]`},
		{"nested arrays keep outer span", `[[1], [2]]`, `[[1], [2]]`},
		{"no array returns cleaned text", `{"a": 1}`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONArray(tt.input))
		})
	}
}
