package resolve

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// maxOptions caps the merged candidate list shown to the caller.
const maxOptions = 6

// UseAsTypedLabel is the synthetic escape option appended when a short
// input has exactly one knowledge-service candidate. Choosing it keeps
// the literal input as the subject name.
const UseAsTypedLabel = "Use as typed"

// Resolution is the outcome of resolving a subject string.
type Resolution struct {
	NeedsDisambiguation bool
	Options             []types.DisambiguationOption
	Resolved            *types.DisambiguationOption // set when auto-resolved
}

// Resolver decides whether a subject needs disambiguation, querying the
// knowledge-lookup service when credentials are present and always merging
// the static ambiguous-name table. Lookup failures degrade silently.
type Resolver struct {
	apiKey  string
	cx      string
	timeout time.Duration

	// lookup is swappable for tests; defaults to Custom Search.
	lookup func(ctx context.Context, query string) ([]types.DisambiguationOption, error)
}

// New creates a resolver. Empty credentials disable the knowledge lookup;
// resolution then runs on the static table alone.
func New(apiKey, cx string, timeout time.Duration) *Resolver {
	r := &Resolver{apiKey: apiKey, cx: cx, timeout: timeout}
	r.lookup = r.searchLookup
	return r
}

// Resolve applies the disambiguation decision policy. It never returns an
// error: any lookup failure degrades to static-table data or to no
// enrichment at all.
func (r *Resolver) Resolve(ctx context.Context, input string) *Resolution {
	input = strings.TrimSpace(input)

	// URLs are treated as unambiguous; resolution is skipped entirely.
	if IsURL(input) {
		return &Resolution{}
	}

	var serviceCands []types.DisambiguationOption
	if r.apiKey != "" && r.cx != "" {
		lctx, cancel := context.WithTimeout(ctx, r.timeout)
		cands, err := r.lookup(lctx, input)
		cancel()
		if err != nil {
			log.Printf("[RESOLVE] knowledge lookup failed for %q: %v", input, err)
		} else {
			serviceCands = cands
		}
	}

	staticCands := staticCandidates(input)
	merged := mergeCandidates(serviceCands, staticCands)
	words := len(strings.Fields(input))
	shortInput := words <= 2

	switch {
	case shortInput && len(merged) >= 2:
		return &Resolution{NeedsDisambiguation: true, Options: merged}

	case len(serviceCands) >= 2:
		return &Resolution{NeedsDisambiguation: true, Options: merged}

	case len(serviceCands) == 1 && words >= 3:
		resolved := serviceCands[0]
		return &Resolution{Resolved: &resolved}

	case len(serviceCands) == 0 && len(staticCands) >= 2:
		return &Resolution{NeedsDisambiguation: true, Options: staticCands}

	case len(serviceCands) == 1:
		// Short input with a single service candidate: let the caller
		// confirm, with an escape hatch to keep the literal text.
		options := append(merged, types.DisambiguationOption{
			Label:       UseAsTypedLabel,
			Description: fmt.Sprintf("Continue with %q as entered", input),
		})
		return &Resolution{NeedsDisambiguation: true, Options: options}

	default:
		return &Resolution{}
	}
}

// mergeCandidates combines service and static candidates, deduplicating
// by display label (case-insensitive), capped at maxOptions. Service
// candidates come first.
func mergeCandidates(service, static []types.DisambiguationOption) []types.DisambiguationOption {
	seen := make(map[string]bool)
	var merged []types.DisambiguationOption
	for _, c := range append(append([]types.DisambiguationOption(nil), service...), static...) {
		key := strings.ToLower(c.Label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, c)
		if len(merged) == maxOptions {
			break
		}
	}
	return merged
}

// searchLookup queries Google Custom Search as the knowledge-lookup
// service and maps results to candidate entities.
func (r *Resolver) searchLookup(ctx context.Context, query string) ([]types.DisambiguationOption, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(r.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	resp, err := svc.Cse.List().Cx(r.cx).Q(query + " company").Num(5).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup failed: %w", err)
	}

	var options []types.DisambiguationOption
	seen := make(map[string]bool)
	for _, item := range resp.Items {
		label := cleanTitle(item.Title)
		if label == "" || seen[strings.ToLower(label)] {
			continue
		}
		seen[strings.ToLower(label)] = true
		options = append(options, types.DisambiguationOption{
			Label:       label,
			Description: item.Snippet,
			Domain:      hostOf(item.Link),
			EntityID:    item.CacheId,
		})
	}
	return options, nil
}

// cleanTitle strips common "Title | Site" and "Title - Site" suffixes.
func cleanTitle(title string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return strings.TrimSpace(title)
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// IsURL reports whether the input looks like a URL rather than a name.
func IsURL(input string) bool {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return true
	}
	// Bare domains like example.com count too.
	if !strings.Contains(input, " ") && strings.Contains(input, ".") {
		u, err := url.Parse("https://" + input)
		return err == nil && strings.Contains(u.Host, ".")
	}
	return false
}

// HomeURL derives the site to read for a resolution outcome: the input
// itself when it is a URL, else the chosen option's domain, else a guess
// from the subject name.
func HomeURL(input string, choice *types.DisambiguationOption) string {
	input = strings.TrimSpace(input)
	if IsURL(input) {
		if strings.HasPrefix(input, "http") {
			return input
		}
		return "https://" + input
	}
	if choice != nil && choice.Domain != "" {
		return "https://" + choice.Domain
	}
	slug := strings.ToLower(strings.Join(strings.Fields(input), ""))
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, slug)
	if slug == "" {
		return ""
	}
	return "https://" + slug + ".com"
}
