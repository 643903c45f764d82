package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	for _, key := range []string{
		"ideas", "ideas-structure-hint",
		"buildplan", "buildplan-structure-hint",
		"custom-idea", "custom-idea-structure-hint",
	} {
		prompt, err := Get("generation.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGetMissingKey(t *testing.T) {
	_, err := Get("generation.json", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestGetMissingFile(t *testing.T) {
	_, err := Get("missing.json", "ideas")
	assert.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("generation.json", "nonexistent")
	})
}

func TestFormat(t *testing.T) {
	out := Format("Ideas for {{.Name}} ({{.Effort}})", map[string]string{
		"Name":   "Acme",
		"Effort": "spark",
	})
	assert.Equal(t, "Ideas for Acme (spark)", out)

	// Unmatched placeholders are left alone.
	out = Format("{{.Name}} and {{.Other}}", map[string]string{"Name": "Acme"})
	assert.Equal(t, "Acme and {{.Other}}", out)
}
