package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	keys := []string{"contact_info", "summary_sentiment", "salary_info", "job_openings", "translate"}
	for _, key := range keys {
		prompt, err := Get("enrichment.json", key)
		require.NoError(t, err, "prompt %s", key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("enrichment.json", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("absent.json", "contact_info")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Company}} at {{.Website}}", map[string]string{
		"Company": "Betopia",
		"Website": "https://betopia.example",
	})
	assert.Equal(t, "Hello Betopia at https://betopia.example", out)
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	out := Format("{{.Missing}}", map[string]string{"Other": "x"})
	assert.Equal(t, "{{.Missing}}", out)
}
