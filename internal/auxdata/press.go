// Package auxdata implements the independent auxiliary evidence fetchers:
// press discovery, the external news index, the product-discovery index
// and keyword derivation. Every fetcher is best-effort and non-throwing;
// an empty result is a normal outcome.
package auxdata

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/fetch"
)

// pressPaths are the common press/news locations probed on the subject's
// site.
var pressPaths = []string{"/press", "/news", "/newsroom", "/media", "/blog"}

// maxPressItems caps combined press results.
const maxPressItems = 8

// PressResult holds discovered press page URLs and headline texts.
type PressResult struct {
	PageURLs  []string
	Headlines []string
}

// DiscoverPress probes common press paths and scans the sitemap for
// press/news/blog URLs. Failures are swallowed; the zero result means
// "nothing found".
func DiscoverPress(ctx context.Context, baseURL string, probeTimeout, fetchTimeout time.Duration) *PressResult {
	res := &PressResult{}
	if baseURL == "" {
		return res
	}
	base := strings.TrimSuffix(baseURL, "/")

	var indexURL string
	for _, path := range pressPaths {
		candidate := base + path
		ok, _, err := fetch.Exists(ctx, candidate, probeTimeout)
		if err != nil || !ok {
			continue
		}
		res.PageURLs = append(res.PageURLs, candidate)
		if indexURL == "" {
			indexURL = candidate
		}
	}

	// Headlines come from the first existing press index page.
	if indexURL != "" {
		res.Headlines = scrapeHeadlines(ctx, indexURL, fetchTimeout)
	}

	for _, u := range scanSitemap(ctx, base, fetchTimeout) {
		if len(res.PageURLs) >= maxPressItems {
			break
		}
		if !contains(res.PageURLs, u) {
			res.PageURLs = append(res.PageURLs, u)
		}
	}

	if len(res.Headlines) > maxPressItems {
		res.Headlines = res.Headlines[:maxPressItems]
	}
	return res
}

// scrapeHeadlines pulls headline-looking link texts from a press index page.
func scrapeHeadlines(ctx context.Context, pageURL string, timeout time.Duration) []string {
	result, err := fetch.URL(ctx, pageURL, &fetch.Options{Timeout: timeout, UserAgent: fetch.DefaultUserAgent})
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(result.Body)))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var headlines []string
	doc.Find("article a, h2 a, h3 a, a h2, a h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) < 20 || len(text) > 140 || seen[text] {
			return
		}
		seen[text] = true
		headlines = append(headlines, text)
	})
	if len(headlines) > maxPressItems {
		headlines = headlines[:maxPressItems]
	}
	return headlines
}

type sitemapURLSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// scanSitemap fetches /sitemap.xml and returns URLs whose path matches a
// press/news/blog pattern.
func scanSitemap(ctx context.Context, base string, timeout time.Duration) []string {
	result, err := fetch.URL(ctx, base+"/sitemap.xml", &fetch.Options{Timeout: timeout, UserAgent: fetch.DefaultUserAgent})
	if err != nil {
		return nil
	}

	var set sitemapURLSet
	if err := xml.Unmarshal(result.Body, &set); err != nil {
		return nil
	}

	var matched []string
	for _, entry := range set.URLs {
		loc := strings.TrimSpace(entry.Loc)
		lower := strings.ToLower(loc)
		if strings.Contains(lower, "/press") || strings.Contains(lower, "/news") || strings.Contains(lower, "/blog") {
			matched = append(matched, strings.TrimSuffix(loc, "/"))
			if len(matched) >= maxPressItems {
				break
			}
		}
	}
	return matched
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
