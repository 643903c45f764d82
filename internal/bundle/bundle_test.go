package bundle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

func fullBundle() *types.ContextBundle {
	return Build(
		&types.CompanyContext{
			Name:           "Acme",
			URL:            "https://acme.com",
			Description:    "Rocket-powered tools.",
			PressHeadlines: []string{"Acme raises series B"},
		},
		&types.Theme{Primary: "#d4380d", Accent: "#2b6cb0", Background: "#fdf5f2", Source: types.ThemeFromSiteCSS},
		[]types.PageSummary{{URL: "https://acme.com", Title: "Acme", Headings: []string{"Build faster"}}},
		[]types.NewsItem{{Title: "Acme launches new platform"}},
		[]types.ProductItem{{Name: "RocketKit", Tagline: "Dev tools for rockets"}},
		[]string{"launches cluster around developer tooling"},
		[]string{"rockets", "tools"},
	)
}

func TestBuildCopiesPressFromCompany(t *testing.T) {
	b := fullBundle()
	assert.Equal(t, []string{"Acme raises series B"}, b.Press)
	assert.Equal(t, "Acme", b.Company.Name)
	assert.Equal(t, "#d4380d", b.Brand.Primary)
}

func TestRenderPromptIncludesAllSections(t *testing.T) {
	prompt := RenderPrompt(fullBundle())

	for _, section := range []string{
		"## Company", "## Site pages", "## Brand", "## Press headlines",
		"## Recent news", "## Related product launches", "## Observed patterns", "## Keywords",
	} {
		assert.Contains(t, prompt, section)
	}
	assert.Contains(t, prompt, "Acme raises series B")
	assert.Contains(t, prompt, "RocketKit")
	assert.Contains(t, prompt, "rockets, tools")
}

func TestRenderPromptOmitsEmptySections(t *testing.T) {
	b := Build(
		&types.CompanyContext{Name: "Acme"},
		&types.Theme{Primary: "#d4380d", Source: types.ThemeDefault},
		nil, nil, nil, nil, nil,
	)
	prompt := RenderPrompt(b)

	assert.Contains(t, prompt, "## Company")
	assert.Contains(t, prompt, "## Brand")
	for _, section := range []string{
		"## Site pages", "## Press headlines", "## Recent news",
		"## Related product launches", "## Observed patterns", "## Keywords",
	} {
		assert.NotContains(t, prompt, section)
	}
}

func TestRenderPromptBounded(t *testing.T) {
	company := &types.CompanyContext{Name: "Acme"}
	var press []string
	for i := 0; i < 500; i++ {
		press = append(press, fmt.Sprintf("Headline %d with some additional filler text to grow the prompt", i))
	}
	company.PressHeadlines = press

	b := Build(company, &types.Theme{Primary: "#d4380d"}, nil, nil, nil, nil, nil)
	prompt := RenderPrompt(b)

	require.LessOrEqual(t, len(prompt), MaxPromptChars)
	assert.True(t, strings.HasSuffix(prompt, "\n"), "truncation must cut at a line boundary")
}

func TestPreview(t *testing.T) {
	b := fullBundle()
	full := RenderPrompt(b)

	assert.Equal(t, full, Preview(b, len(full)), "a large enough budget returns the full prompt")

	short := Preview(b, 40)
	require.True(t, strings.HasSuffix(short, "\n..."))
	assert.Contains(t, full, strings.TrimSuffix(short, "\n..."))
	assert.LessOrEqual(t, len(short), 40+len("\n..."))
}

func TestDigest(t *testing.T) {
	d := Digest(fullBundle())
	assert.Contains(t, d, "Acme")
	assert.Contains(t, d, "1 pages")
	assert.Contains(t, d, "site-css")
}
