package auxdata

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// maxNewsItems caps external news results.
const maxNewsItems = 6

// NewsIndex queries the external news index (Custom Search restricted by
// recency) with progressively broader queries.
type NewsIndex struct {
	apiKey  string
	cx      string
	timeout time.Duration

	// search is swappable for tests.
	search func(ctx context.Context, query, dateRestrict string) ([]types.NewsItem, error)
}

// NewNewsIndex creates the index client. Empty credentials make every
// search return no items.
func NewNewsIndex(apiKey, cx string, timeout time.Duration) *NewsIndex {
	n := &NewsIndex{apiKey: apiKey, cx: cx, timeout: timeout}
	n.search = n.customSearch
	return n
}

// Search runs the broadening query ladder: name+domain in the last 30
// days, then name-only at 30 days, then name-only at 90 days. It stops at
// the first non-empty result and never returns an error.
func (n *NewsIndex) Search(ctx context.Context, name, domain string) []types.NewsItem {
	if n.apiKey == "" || n.cx == "" || strings.TrimSpace(name) == "" {
		return nil
	}

	type rung struct {
		query        string
		dateRestrict string
	}
	ladder := []rung{
		{fmt.Sprintf("%q %s news", name, domain), "d30"},
		{fmt.Sprintf("%q news", name), "d30"},
		{fmt.Sprintf("%q news", name), "d90"},
	}
	if domain == "" {
		ladder = ladder[1:]
	}

	for _, r := range ladder {
		sctx, cancel := context.WithTimeout(ctx, n.timeout)
		items, err := n.search(sctx, r.query, r.dateRestrict)
		cancel()
		if err != nil {
			log.Printf("[NEWS] query %q failed: %v", r.query, err)
			continue
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func (n *NewsIndex) customSearch(ctx context.Context, query, dateRestrict string) ([]types.NewsItem, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(n.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	resp, err := svc.Cse.List().Cx(n.cx).Q(query).DateRestrict(dateRestrict).
		Num(maxNewsItems).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("news search failed: %w", err)
	}

	items := make([]types.NewsItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, types.NewsItem{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}
	return items, nil
}
