// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCompany outputs a human-readable summary of the resolved company
// context.
func (p *Printer) PrintCompany(company *types.CompanyContext) {
	if company == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", company.Name))
	if company.URL != "" {
		sb.WriteString(fmt.Sprintf("Website:  %s\n", company.URL))
	}
	if company.Description != "" {
		sb.WriteString(fmt.Sprintf("About:    %s\n", company.Description))
	}

	if len(company.Headings) > 0 {
		sb.WriteString("\nSite headings:\n")
		count := min(len(company.Headings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", company.Headings[i]))
		}
		if len(company.Headings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(company.Headings)-maxItemsToShow))
		}
	}

	p.printBox("RESOLVED COMPANY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTheme outputs the sampled brand theme with its provenance.
func (p *Printer) PrintTheme(theme *types.Theme) {
	if theme == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Primary:    %s\n", theme.Primary))
	sb.WriteString(fmt.Sprintf("Accent:     %s\n", theme.Accent))
	sb.WriteString(fmt.Sprintf("Background: %s\n", theme.Background))
	sb.WriteString(fmt.Sprintf("Text:       %s\n", theme.Text))
	if theme.FontFamily != "" {
		sb.WriteString(fmt.Sprintf("Font:       %s\n", theme.FontFamily))
	}
	sb.WriteString(fmt.Sprintf("Source:     %s", theme.Source))

	p.printBox("BRAND THEME", sb.String())
}

// PrintIdeas outputs the generated ideas grouped by effort level.
func (p *Printer) PrintIdeas(ideas []types.Idea) {
	if len(ideas) == 0 {
		return
	}

	var sb strings.Builder
	var lastEffort types.EffortLevel
	for _, idea := range ideas {
		if idea.Effort != lastEffort {
			if lastEffort != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(string(idea.Effort))))
			lastEffort = idea.Effort
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", idea.Title))
	}

	p.printBox(fmt.Sprintf("PROTOTYPE IDEAS (%d)", len(ideas)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvidence outputs the diagnostic trail for a finished job.
func (p *Printer) PrintEvidence(ev *types.Evidence) {
	if ev == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fetch attempts: %d\n", len(ev.FetchAttempts)))
	count := min(len(ev.FetchAttempts), maxItemsToShow)
	for i := 0; i < count; i++ {
		a := ev.FetchAttempts[i]
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", a.URL, a.Outcome))
	}
	if len(ev.FetchAttempts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ev.FetchAttempts)-maxItemsToShow))
	}

	sb.WriteString(fmt.Sprintf("\nPress: %d  News: %d  Launches: %d\n",
		ev.PressCount, ev.NewsCount, ev.ProductCount))
	if len(ev.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(ev.Keywords, ", ")))
	}
	if ev.ProviderUsed != "" {
		sb.WriteString(fmt.Sprintf("Provider: %s", ev.ProviderUsed))
		if ev.ProviderModel != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", ev.ProviderModel))
		}
		sb.WriteString("\n")
	}
	for _, note := range ev.Notes {
		sb.WriteString(fmt.Sprintf("Note: %s\n", note))
	}

	p.printBox("EVIDENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs a build plan step list.
func (p *Printer) PrintPlan(plan *types.BuildPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Folder: %s\n\n", plan.FolderName))
	for i, step := range plan.Steps {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, step.Role, step.Title))
	}

	p.printBox("BUILD PLAN", strings.TrimSuffix(sb.String(), "\n"))
}
