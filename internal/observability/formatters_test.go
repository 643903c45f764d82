package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

func TestPrintCompany(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCompany(&types.CompanyContext{
		Name:        "Acme",
		URL:         "https://acme.com",
		Description: "Payment rails for small merchants",
		Headings:    []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"},
	})

	out := buf.String()
	assert.Contains(t, out, "RESOLVED COMPANY")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "https://acme.com")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "Six", "list display is capped")
}

func TestPrintCompanyNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCompany(nil)
	assert.Empty(t, buf.String())
}

func TestPrintTheme(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTheme(&types.Theme{
		Primary:    "#d4380d",
		Accent:     "#2b6cb0",
		Background: "#ffffff",
		Text:       "#1a1a1a",
		FontFamily: "Inter",
		Source:     types.ThemeFromSiteCSS,
	})

	out := buf.String()
	assert.Contains(t, out, "BRAND THEME")
	assert.Contains(t, out, "#d4380d")
	assert.Contains(t, out, "Inter")
	assert.Contains(t, out, string(types.ThemeFromSiteCSS))
}

func TestPrintIdeasGroupsByEffort(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIdeas([]types.Idea{
		{Title: "Status page", Effort: types.EffortSpark},
		{Title: "Pricing explorer", Effort: types.EffortSpark},
		{Title: "Checkout demo", Effort: types.EffortWeekend},
	})

	out := buf.String()
	assert.Contains(t, out, "PROTOTYPE IDEAS (3)")
	assert.Contains(t, out, "[SPARK]")
	assert.Contains(t, out, "[WEEKEND]")
	assert.Less(t, strings.Index(out, "[SPARK]"), strings.Index(out, "[WEEKEND]"))
}

func TestPrintIdeasEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintIdeas(nil)
	assert.Empty(t, buf.String())
}

func TestPrintEvidence(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvidence(&types.Evidence{
		FetchAttempts: []types.FetchAttempt{
			{URL: "https://acme.com", Outcome: types.AttemptOK},
			{URL: "https://acme.com/press", Outcome: types.AttemptNotFound},
		},
		PressCount:   2,
		NewsCount:    0,
		ProductCount: 4,
		Keywords:     []string{"payments", "merchants"},
		ProviderUsed: "deterministic",
		Notes:        []string{"site content was thin; context leans on external sources"},
	})

	out := buf.String()
	assert.Contains(t, out, "EVIDENCE")
	assert.Contains(t, out, "Fetch attempts: 2")
	assert.Contains(t, out, "(ok)")
	assert.Contains(t, out, "payments, merchants")
	assert.Contains(t, out, "deterministic")
	assert.Contains(t, out, "Note: site content was thin")
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlan(&types.BuildPlan{
		FolderName: "acme-checkout-demo",
		Steps: []types.BuildStep{
			{Role: "builder", Title: "Scaffold the project"},
			{Role: "designer", Title: "Apply the brand theme"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "BUILD PLAN")
	assert.Contains(t, out, "acme-checkout-demo")
	assert.Contains(t, out, "1. [builder] Scaffold the project")
	assert.Contains(t, out, "2. [designer] Apply the brand theme")
}

func TestPrintBoxTruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, "line overflows the box: %q", line)
	}
}
