package generate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

func TestFallbackIdeasShape(t *testing.T) {
	p := &FallbackProvider{}
	ideas := p.Ideas("Acme")

	require.Len(t, ideas, ideasPerLevel*len(types.EffortLevels()))

	// Exactly three per level, in ascending effort order.
	counts := make(map[string]int)
	lastRank := -1
	for _, idea := range ideas {
		counts[idea.Effort]++
		rank := types.EffortRank(types.EffortLevel(idea.Effort))
		require.GreaterOrEqual(t, rank, 0, "unknown effort %q", idea.Effort)
		assert.GreaterOrEqual(t, rank, lastRank, "ideas must be ordered lowest to highest effort")
		lastRank = rank

		assert.NotEmpty(t, idea.Title)
		assert.NotEmpty(t, idea.Summary)
	}
	for _, level := range types.EffortLevels() {
		assert.Equal(t, ideasPerLevel, counts[string(level)])
	}
}

func TestFallbackIdeasDeterministic(t *testing.T) {
	p := &FallbackProvider{}

	first := p.Ideas("Acme")
	second := p.Ideas(" Acme ") // surrounding whitespace does not change the seed
	assert.Equal(t, first, second)

	other := p.Ideas("Globex")
	assert.NotEqual(t, first, other, "distinct subjects should get distinct idea sets")
}

func TestFallbackIdeasPassSchema(t *testing.T) {
	p := &FallbackProvider{}
	for _, idea := range p.Ideas("Acme") {
		assert.NotEmpty(t, idea.Outline.Pages)
		assert.NotEmpty(t, idea.Outline.Components)
	}
}

func TestFallbackPlan(t *testing.T) {
	p := &FallbackProvider{}
	idea := &types.Idea{
		ID:      uuid.New(),
		Title:   "Acme Metrics Dashboard",
		Summary: "A dashboard for Acme KPIs.",
		Effort:  types.EffortDaybuild,
	}

	plan := p.Plan(idea)
	require.NotNil(t, plan)
	assert.Equal(t, "acme-metrics-dashboard", plan.FolderName)
	assert.NotEmpty(t, plan.SetupScript)
	assert.GreaterOrEqual(t, len(plan.Steps), minPlanSteps)
	for _, step := range plan.Steps {
		assert.NotEmpty(t, step.Role)
		assert.NotEmpty(t, step.Title)
		assert.NotEmpty(t, step.Instruction)
		assert.NotEmpty(t, step.Prompt)
	}
}

func TestFallbackCustomIdea(t *testing.T) {
	p := &FallbackProvider{}
	idea := p.CustomIdea("Acme", "A live status page for the Acme public API with incident history.")

	assert.Contains(t, idea.Title, "Acme")
	assert.NotEmpty(t, idea.Summary)
	assert.GreaterOrEqual(t, types.EffortRank(types.EffortLevel(idea.Effort)), 0)
}

func TestFallbackCustomIdeaTruncatesOnRuneBoundary(t *testing.T) {
	p := &FallbackProvider{}
	idea := p.CustomIdea("Acme", strings.Repeat("é", 70))

	assert.True(t, utf8.ValidString(idea.Title), "truncation must not split a multibyte rune")
	assert.Contains(t, idea.Title, "...")
	assert.Contains(t, idea.Title, strings.Repeat("é", 60))
	assert.NotContains(t, idea.Title, strings.Repeat("é", 61))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Metrics Dashboard", "acme-metrics-dashboard"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Symbols & Stuff!", "symbols-stuff"},
		{"", "prototype"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slugify(tt.input))
	}
}
