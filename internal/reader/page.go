// Package reader implements the two-stage content reader: a direct fetch
// with goquery parsing, an optional headless-render fallback for thin
// pages, and bounded discovery of related sub-pages.
package reader

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page holds the parsed view of one fetched page.
type Page struct {
	URL             string
	Title           string
	MetaDescription string
	ThemeColor      string
	Headings        []string
	NavLabels       []string
	Links           []string // absolute, same-host
	Text            string
	HTML            string
	Rendered        bool // produced by the browser fallback
}

// TextLen returns the visible text length used for thinness checks.
func (p *Page) TextLen() int {
	if p == nil {
		return 0
	}
	return len(strings.TrimSpace(p.Text))
}

// parsePage extracts title, meta description, headings, nav labels,
// same-host links and visible text from raw HTML.
func parsePage(html, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	p := &Page{URL: pageURL, HTML: html}
	p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		p.MetaDescription = strings.TrimSpace(desc)
	}
	if tc, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok {
		p.ThemeColor = strings.TrimSpace(tc)
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		h := collapseSpace(s.Text())
		if h != "" && len(h) <= 160 {
			p.Headings = append(p.Headings, h)
		}
	})

	seenNav := make(map[string]bool)
	doc.Find("nav a, header a").Each(func(_ int, s *goquery.Selection) {
		label := collapseSpace(s.Text())
		if label == "" || len(label) > 40 || seenNav[label] {
			return
		}
		seenNav[label] = true
		p.NavLabels = append(p.NavLabels, label)
	})

	p.Links = sameHostLinks(doc, pageURL)

	// Visible text, noise removed.
	doc.Find("script, style, noscript, svg").Remove()
	p.Text = collapseSpace(doc.Find("body").Text())

	return p, nil
}

// sameHostLinks resolves every anchor against the base URL and keeps
// same-host results, deduplicated, fragments stripped.
func sameHostLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			return
		}
		abs.Fragment = ""
		link := strings.TrimSuffix(abs.String(), "/")
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
