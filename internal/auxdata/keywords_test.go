package auxdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

func TestDeriveKeywordsRanksByIndependentSources(t *testing.T) {
	company := &types.CompanyContext{
		Name:        "Acme",
		Description: "Payments infrastructure for marketplaces",
		Headings:    []string{"Payments made simple", "Built for marketplaces"},
		NewsTitles:  []string{"Acme expands payments platform"},
	}

	keywords := DeriveKeywords(company)
	require.NotEmpty(t, keywords)
	assert.LessOrEqual(t, len(keywords), maxKeywords)

	// "payments" appears in three independent sources and must rank first.
	assert.Equal(t, "payments", keywords[0])
	assert.Contains(t, keywords, "marketplaces")
}

func TestDeriveKeywordsExcludesNameAndStopwords(t *testing.T) {
	company := &types.CompanyContext{
		Name:        "Rocket Tools",
		Description: "The rocket tools for your team and the builders",
		Headings:    []string{"Why builders love our tools"},
	}

	keywords := DeriveKeywords(company)
	for _, kw := range keywords {
		assert.NotEqual(t, "rocket", kw, "subject name tokens are excluded")
		assert.NotEqual(t, "tools", kw)
		assert.NotEqual(t, "the", kw)
		assert.NotEqual(t, "for", kw)
	}
	assert.Contains(t, keywords, "builders")
}

func TestDeriveKeywordsFallback(t *testing.T) {
	tests := []struct {
		name    string
		company *types.CompanyContext
	}{
		{"nil company", nil},
		{"empty company", &types.CompanyContext{Name: "Acme"}},
		{"only stopwords", &types.CompanyContext{Name: "Acme", Description: "the and for with"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fallbackKeywords, DeriveKeywords(tt.company))
		})
	}
}

func TestDeriveKeywordsDeterministicTieBreak(t *testing.T) {
	company := &types.CompanyContext{
		Name:        "Acme",
		Description: "zebra yak xylophone",
	}

	first := DeriveKeywords(company)
	second := DeriveKeywords(company)
	assert.Equal(t, first, second)
	// Equal source and total counts: alphabetical order decides.
	assert.Equal(t, []string{"xylophone", "yak", "zebra"}, first)
}
