package auxdata

import (
	"sort"
	"strings"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// maxKeywords is how many derived keywords the product index receives.
const maxKeywords = 3

// fallbackKeywords guarantee a small deterministic set when the context
// carries no usable signal at all.
var fallbackKeywords = []string{"saas", "dashboard", "automation"}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "your": true,
	"our": true, "you": true, "are": true, "that": true, "this": true,
	"from": true, "how": true, "why": true, "what": true, "get": true,
	"more": true, "all": true, "new": true, "about": true, "home": true,
	"contact": true, "learn": true, "into": true, "can": true, "use": true,
	"not": true, "has": true, "have": true, "will": true, "its": true,
	"out": true, "now": true, "was": true, "were": true, "been": true,
}

// DeriveKeywords ranks candidate words by how many independent context
// sources mention them, breaking ties by total frequency then
// alphabetically. The subject's own name tokens and stopwords are
// excluded. The result is never empty.
func DeriveKeywords(company *types.CompanyContext) []string {
	if company == nil {
		return append([]string(nil), fallbackKeywords...)
	}

	nameTokens := make(map[string]bool)
	for _, tok := range tokenize(company.Name) {
		nameTokens[tok] = true
	}

	sources := [][]string{
		tokenize(company.Description),
		tokenizeAll(company.Headings),
		tokenizeAll(company.NavLabels),
		tokenizeAll(company.PressHeadlines),
		tokenizeAll(company.NewsTitles),
		tokenizeAll(company.IndustryHints),
	}

	type stat struct {
		sources int
		total   int
	}
	stats := make(map[string]*stat)
	for _, source := range sources {
		seenHere := make(map[string]bool)
		for _, tok := range source {
			if stopwords[tok] || nameTokens[tok] || len(tok) < 3 {
				continue
			}
			st := stats[tok]
			if st == nil {
				st = &stat{}
				stats[tok] = st
			}
			st.total++
			if !seenHere[tok] {
				seenHere[tok] = true
				st.sources++
			}
		}
	}

	words := make([]string, 0, len(stats))
	for w := range stats {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		a, b := stats[words[i]], stats[words[j]]
		if a.sources != b.sources {
			return a.sources > b.sources
		}
		if a.total != b.total {
			return a.total > b.total
		}
		return words[i] < words[j]
	})

	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	if len(words) == 0 {
		return append([]string(nil), fallbackKeywords...)
	}
	return words
}

func tokenize(s string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,:;!?()[]\"'&")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokenizeAll(items []string) []string {
	var tokens []string
	for _, item := range items {
		tokens = append(tokens, tokenize(item)...)
	}
	return tokens
}
