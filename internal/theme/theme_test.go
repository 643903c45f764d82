package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"six digit hex", "#1a2b3c", "#1a2b3c", true},
		{"three digit hex", "#f0a", "#ff00aa", true},
		{"rgb function", "rgb(255, 0, 170)", "#ff00aa", true},
		{"with whitespace", "  #1a2b3c  ", "#1a2b3c", true},
		{"named color unsupported", "cornflowerblue", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, c.Hex())
			}
		})
	}
}

func TestUsable(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		expected bool
	}{
		{"saturated mid-tone", "#d4380d", true},
		{"near white rejected", "#fafafa", false},
		{"near black rejected", "#0a0a0a", false},
		{"grey rejected", "#808080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ParseColor(tt.hex)
			require.True(t, ok)
			assert.Equal(t, tt.expected, Usable(c))
		})
	}
}

func TestDerivedPaletteDeterministicAndUsable(t *testing.T) {
	names := []string{"Acme", "Globex", "Initech", "a", "Some Very Long Company Name LLC"}

	for _, name := range names {
		p1, a1 := derivedPalette(name)
		p2, a2 := derivedPalette(name)
		assert.Equal(t, p1, p2, "palette must be stable for %q", name)
		assert.Equal(t, a1, a2)
		assert.True(t, Usable(p1), "derived primary for %q must pass the usability filter", name)
	}

	// Case and surrounding whitespace do not change the palette.
	p1, _ := derivedPalette("Acme")
	p2, _ := derivedPalette("  acme ")
	assert.Equal(t, p1, p2)

	// Distinct names get distinct palettes.
	pa, _ := derivedPalette("Acme")
	pg, _ := derivedPalette("Globex")
	assert.NotEqual(t, pa, pg)
}

func TestFromSiteCSSBrandVariable(t *testing.T) {
	html := `<html><head><style>
		:root { --color-primary: #d4380d; --color-accent: #2b6cb0; }
		body { font-family: Inter, sans-serif; }
	</style></head><body></body></html>`

	ext := fromSiteCSS(html)
	require.True(t, ext.ok)
	assert.Equal(t, "#d4380d", ext.primary.Hex())
	require.True(t, ext.hasAcc)
	assert.Equal(t, "#2b6cb0", ext.accent.Hex())
	assert.Contains(t, ext.font, "Inter")
}

func TestFromSiteCSSThemeColorMeta(t *testing.T) {
	html := `<html><head><meta name="theme-color" content="#336699"></head><body></body></html>`

	ext := fromSiteCSS(html)
	require.True(t, ext.ok)
	assert.Equal(t, "#336699", ext.primary.Hex())
}

func TestFromSiteCSSRejectsUnusableVariable(t *testing.T) {
	// A white brand variable must not win; nothing else usable here.
	html := `<style>:root { --color-primary: #ffffff; }</style>`

	ext := fromSiteCSS(html)
	assert.False(t, ext.ok)
}

func TestSamplerFallsBackToDerivedPalette(t *testing.T) {
	s := NewSampler()

	// No HTML, no reachable favicon: strategy 3 applies.
	theme, cacheHit := s.Sample(context.Background(), "Acme", "", "")
	require.NotNil(t, theme)
	assert.False(t, cacheHit)
	assert.Equal(t, types.ThemeDefault, theme.Source)
	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.Accent)
	assert.NotEmpty(t, theme.Background)
	assert.NotEmpty(t, theme.Text)
	assert.Equal(t, "8px", theme.BorderRadius)
}

func TestSamplerCachesByOrigin(t *testing.T) {
	s := NewSampler()
	html := `<style>:root { --color-primary: #d4380d; }</style>`

	first, hit := s.Sample(context.Background(), "Acme", "https://acme.com", html)
	assert.False(t, hit)
	assert.Equal(t, types.ThemeFromSiteCSS, first.Source)

	// Same origin: cached, even with different page content.
	second, hit := s.Sample(context.Background(), "Acme", "https://acme.com/about", "")
	assert.True(t, hit)
	assert.Equal(t, first, second)

	// Different origin misses.
	_, hit = s.Sample(context.Background(), "Acme", "https://other.com", "")
	assert.False(t, hit)
}
