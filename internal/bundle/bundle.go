// Package bundle builds the canonical context bundle consumed by the
// generation cascade, and renders it as prompt text and log digests.
// Everything here is a pure function of its inputs.
package bundle

import (
	"fmt"
	"strings"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// MaxPromptChars bounds the serialized prompt block.
const MaxPromptChars = 6000

// Build merges company context, theme and evidence into the generation-
// ready bundle shape. It has no side effects and reads nothing else.
func Build(company *types.CompanyContext, theme *types.Theme, pages []types.PageSummary,
	news []types.NewsItem, products []types.ProductItem, patterns, keywords []string) *types.ContextBundle {

	b := &types.ContextBundle{
		Pages:    append([]types.PageSummary(nil), pages...),
		News:     append([]types.NewsItem(nil), news...),
		Products: append([]types.ProductItem(nil), products...),
		Patterns: append([]string(nil), patterns...),
		Keywords: append([]string(nil), keywords...),
	}
	if company != nil {
		b.Company = *company
		b.Press = append([]string(nil), company.PressHeadlines...)
	}
	if theme != nil {
		b.Brand = *theme
	}
	return b
}

// RenderPrompt serializes the bundle as a bounded text block for the
// generation providers. Sections with zero items are omitted entirely.
func RenderPrompt(b *types.ContextBundle) string {
	var sb strings.Builder

	sb.WriteString("## Company\n")
	sb.WriteString("Name: " + b.Company.Name + "\n")
	if b.Company.URL != "" {
		sb.WriteString("Website: " + b.Company.URL + "\n")
	}
	if b.Company.Description != "" {
		sb.WriteString("Description: " + b.Company.Description + "\n")
	}
	if len(b.Company.IndustryHints) > 0 {
		sb.WriteString("Industry: " + strings.Join(b.Company.IndustryHints, ", ") + "\n")
	}

	if len(b.Pages) > 0 {
		sb.WriteString("\n## Site pages\n")
		for _, p := range b.Pages {
			sb.WriteString("- " + p.URL)
			if p.Title != "" {
				sb.WriteString(" (" + p.Title + ")")
			}
			sb.WriteString("\n")
			for _, h := range p.Headings {
				sb.WriteString("  - " + h + "\n")
			}
		}
	}

	sb.WriteString("\n## Brand\n")
	sb.WriteString(fmt.Sprintf("Primary %s, accent %s, background %s (source: %s)\n",
		b.Brand.Primary, b.Brand.Accent, b.Brand.Background, b.Brand.Source))
	if b.Brand.FontFamily != "" {
		sb.WriteString("Font: " + b.Brand.FontFamily + "\n")
	}

	if len(b.Press) > 0 {
		sb.WriteString("\n## Press headlines\n")
		for _, h := range b.Press {
			sb.WriteString("- " + h + "\n")
		}
	}

	if len(b.News) > 0 {
		sb.WriteString("\n## Recent news\n")
		for _, n := range b.News {
			sb.WriteString("- " + n.Title + "\n")
		}
	}

	if len(b.Products) > 0 {
		sb.WriteString("\n## Related product launches\n")
		for _, p := range b.Products {
			line := "- " + p.Name
			if p.Tagline != "" {
				line += ": " + p.Tagline
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(b.Patterns) > 0 {
		sb.WriteString("\n## Observed patterns\n")
		for _, pat := range b.Patterns {
			sb.WriteString("- " + pat + "\n")
		}
	}

	if len(b.Keywords) > 0 {
		sb.WriteString("\n## Keywords\n")
		sb.WriteString(strings.Join(b.Keywords, ", ") + "\n")
	}

	out := sb.String()
	if len(out) > MaxPromptChars {
		out = out[:MaxPromptChars]
		// Cut at the last complete line.
		if idx := strings.LastIndexByte(out, '\n'); idx > 0 {
			out = out[:idx+1]
		}
	}
	return out
}

// Digest renders a compact one-line summary for logs.
func Digest(b *types.ContextBundle) string {
	return fmt.Sprintf("bundle[%s]: %d pages, %d press, %d news, %d products, theme=%s",
		b.Company.Name, len(b.Pages), len(b.Press), len(b.News), len(b.Products), b.Brand.Source)
}

// Preview returns the first n characters of the rendered prompt, cut at a
// line boundary, for log output.
func Preview(b *types.ContextBundle, n int) string {
	prompt := RenderPrompt(b)
	if len(prompt) <= n {
		return prompt
	}
	cut := prompt[:n]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "\n..."
}
