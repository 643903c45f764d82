package auxdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// Product index limits.
const (
	maxProducts      = 6
	minKeywordHits   = 3 // below this, fall back to trending
	productsCacheTTL = 30 * time.Minute
)

// defaultProductsBaseURL is an Algolia-style search index over launch and
// show-and-tell posts.
const defaultProductsBaseURL = "https://hn.algolia.com/api/v1"

// ProductIndex queries the product-discovery index by derived keywords,
// falling back to a trending query when keyword results are sparse.
// Results are cached per keyword and deduplicated by name.
type ProductIndex struct {
	BaseURL string
	Client  *http.Client
	timeout time.Duration

	keywordCache  *store.TTLCache[[]types.ProductItem]
	trendingCache *store.TTLCache[[]types.ProductItem]
}

// NewProductIndex creates the index client with process-wide caches.
func NewProductIndex(timeout time.Duration) *ProductIndex {
	return &ProductIndex{
		BaseURL:       defaultProductsBaseURL,
		Client:        http.DefaultClient,
		timeout:       timeout,
		keywordCache:  store.NewTTLCache[[]types.ProductItem](productsCacheTTL),
		trendingCache: store.NewTTLCache[[]types.ProductItem](productsCacheTTL),
	}
}

// SearchResult carries items plus cache observability.
type SearchResult struct {
	Items    []types.ProductItem
	CacheHit bool
	Trending bool // the trending fallback was used
}

// Search looks up each keyword (at most 3), merges and deduplicates by
// name, and falls back to trending when fewer than minKeywordHits items
// were found. Never returns an error.
func (p *ProductIndex) Search(ctx context.Context, keywords []string) *SearchResult {
	res := &SearchResult{CacheHit: true}
	seen := make(map[string]bool)

	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	for _, kw := range keywords {
		items, hit := p.searchKeyword(ctx, kw)
		if !hit {
			res.CacheHit = false
		}
		for _, item := range items {
			key := strings.ToLower(item.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			res.Items = append(res.Items, item)
		}
	}

	if len(res.Items) < minKeywordHits {
		res.Trending = true
		items, hit := p.trending(ctx)
		if !hit {
			res.CacheHit = false
		}
		for _, item := range items {
			key := strings.ToLower(item.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			res.Items = append(res.Items, item)
		}
	}

	if len(res.Items) > maxProducts {
		res.Items = res.Items[:maxProducts]
	}
	if len(keywords) == 0 && !res.Trending {
		res.CacheHit = false
	}
	return res
}

func (p *ProductIndex) searchKeyword(ctx context.Context, keyword string) (items []types.ProductItem, cacheHit bool) {
	if cached, ok := p.keywordCache.Get(keyword); ok {
		return cached, true
	}
	items, err := p.query(ctx, "/search", url.Values{
		"query":       {keyword},
		"tags":        {"show_hn"},
		"hitsPerPage": {"10"},
	})
	if err != nil {
		log.Printf("[PRODUCTS] keyword %q failed: %v", keyword, err)
		return nil, false
	}
	p.keywordCache.Put(keyword, items)
	return items, false
}

func (p *ProductIndex) trending(ctx context.Context) (items []types.ProductItem, cacheHit bool) {
	if cached, ok := p.trendingCache.Get("trending"); ok {
		return cached, true
	}
	items, err := p.query(ctx, "/search", url.Values{
		"tags":        {"front_page"},
		"hitsPerPage": {"10"},
	})
	if err != nil {
		log.Printf("[PRODUCTS] trending query failed: %v", err)
		return nil, false
	}
	p.trendingCache.Put("trending", items)
	return items, false
}

type productHit struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Points    int    `json:"points"`
	StoryText string `json:"story_text"`
}

type productResponse struct {
	Hits []productHit `json:"hits"`
}

func (p *ProductIndex) query(ctx context.Context, path string, params url.Values) ([]types.ProductItem, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product index request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product index returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read product response: %w", err)
	}

	var parsed productResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}

	items := make([]types.ProductItem, 0, len(parsed.Hits))
	for _, hit := range parsed.Hits {
		name := cleanProductName(hit.Title)
		if name == "" {
			continue
		}
		items = append(items, types.ProductItem{
			Name:    name,
			Tagline: tagline(hit),
			URL:     hit.URL,
			Points:  hit.Points,
		})
	}
	return items, nil
}

func cleanProductName(title string) string {
	title = strings.TrimSpace(strings.TrimPrefix(title, "Show HN:"))
	if idx := strings.Index(title, " – "); idx > 0 {
		title = title[:idx]
	} else if idx := strings.Index(title, " - "); idx > 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

func tagline(hit productHit) string {
	for _, sep := range []string{" – ", " - "} {
		if idx := strings.Index(hit.Title, sep); idx > 0 {
			return strings.TrimSpace(hit.Title[idx+len(sep):])
		}
	}
	text := strings.TrimSpace(hit.StoryText)
	if len(text) > 120 {
		text = text[:120]
	}
	return text
}
