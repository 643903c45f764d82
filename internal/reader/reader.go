package reader

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/fetch"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// Thinness thresholds for a single page read (stage A result).
const (
	minHeadings  = 2
	minTextChars = 400
)

// maxSubPages bounds how many related pages are read per subject.
const maxSubPages = 3

// subPageKeywords are matched against link paths when discovering
// related pages from the home page.
var subPageKeywords = []string{
	"product", "products", "pricing", "about", "features",
	"solutions", "platform", "customers", "docs", "blog",
}

// commonPaths are probed when link discovery finds too few sub-pages.
var commonPaths = []string{"/about", "/products", "/pricing", "/features", "/blog"}

// Options configures a site read.
type Options struct {
	UseBrowser    bool
	FetchTimeout  time.Duration
	RenderTimeout time.Duration
	ProbeTimeout  time.Duration
	Verbose       bool
}

// Result is the outcome of reading a subject's site. It never reports an
// error: total failure yields an empty result with diagnostic attempts.
type Result struct {
	Home     *Page
	SubPages []*Page
	Attempts []types.FetchAttempt
	Thin     bool
}

// Headings returns all discovered headings across home and sub-pages.
func (r *Result) Headings() []string {
	var out []string
	if r.Home != nil {
		out = append(out, r.Home.Headings...)
	}
	for _, p := range r.SubPages {
		out = append(out, p.Headings...)
	}
	return out
}

// ReadSite reads the subject's home page and up to three related pages.
// Every attempted URL is recorded; the site being unreachable is a normal
// outcome, not an error.
func ReadSite(ctx context.Context, homeURL string, opts Options) *Result {
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = fetch.DefaultTimeout
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 4 * time.Second
	}
	if opts.RenderTimeout == 0 {
		opts.RenderTimeout = 25 * time.Second
	}

	res := &Result{}

	home, attempt := readPage(ctx, homeURL, opts)
	res.Attempts = append(res.Attempts, attempt)
	res.Home = home

	if home != nil {
		subURLs := discoverSubPages(ctx, home, opts, res)
		pages := make([]*Page, len(subURLs))
		attempts := make([]types.FetchAttempt, len(subURLs))

		g, gctx := errgroup.WithContext(ctx)
		for i, u := range subURLs {
			g.Go(func() error {
				pages[i], attempts[i] = readPage(gctx, u, opts)
				return nil
			})
		}
		_ = g.Wait()

		for i := range subURLs {
			res.Attempts = append(res.Attempts, attempts[i])
			if pages[i] != nil {
				res.SubPages = append(res.SubPages, pages[i])
			}
		}
	}

	res.Thin = len(res.Headings()) < 3 && res.Home.TextLen() < minTextChars
	return res
}

// readPage performs the two-stage read of a single page: a direct fetch,
// then the browser fallback when the first result is thin and the flag is
// on. The richer result by text length wins.
func readPage(ctx context.Context, pageURL string, opts Options) (*Page, types.FetchAttempt) {
	page, attempt := fetchAndParse(ctx, pageURL, opts)

	if opts.UseBrowser && isThin(page) {
		if rendered := renderAndParse(ctx, pageURL, opts); rendered != nil {
			if rendered.TextLen() > page.TextLen() {
				page = rendered
				attempt.Outcome = types.AttemptOK
				attempt.Headings = len(page.Headings)
				attempt.Note = "browser render won"
			}
		}
	}

	return page, attempt
}

func fetchAndParse(ctx context.Context, pageURL string, opts Options) (*Page, types.FetchAttempt) {
	attempt := types.FetchAttempt{URL: pageURL}

	result, err := fetch.URL(ctx, pageURL, &fetch.Options{
		Timeout:   opts.FetchTimeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		attempt.Outcome = classifyError(result, err)
		if result != nil {
			attempt.StatusCode = result.StatusCode
		}
		attempt.Note = err.Error()
		return nil, attempt
	}
	attempt.StatusCode = result.StatusCode

	page, err := parsePage(string(result.Body), pageURL)
	if err != nil {
		attempt.Outcome = types.AttemptError
		attempt.Note = fmt.Sprintf("parse failed: %v", err)
		return nil, attempt
	}
	attempt.Headings = len(page.Headings)

	if page.TextLen() == 0 {
		attempt.Outcome = types.AttemptEmpty
		attempt.Note = "no visible text"
		return page, attempt
	}

	attempt.Outcome = types.AttemptOK
	return page, attempt
}

func renderAndParse(ctx context.Context, pageURL string, opts Options) *Page {
	html, err := fetch.Render(ctx, pageURL, opts.RenderTimeout, opts.Verbose)
	if err != nil {
		if opts.Verbose {
			log.Printf("[READER] render fallback failed for %s: %v", pageURL, err)
		}
		return nil
	}
	page, err := parsePage(html, pageURL)
	if err != nil {
		return nil
	}
	page.Rendered = true
	return page
}

// isThin reports whether a stage A result warrants the render fallback.
func isThin(p *Page) bool {
	if p == nil {
		return true
	}
	return len(p.Headings) < minHeadings && p.TextLen() < minTextChars
}

// discoverSubPages picks up to maxSubPages related URLs, first by matching
// the home page's outbound links against the keyword set, then by probing
// common paths when that finds fewer than two.
func discoverSubPages(ctx context.Context, home *Page, opts Options, res *Result) []string {
	seen := map[string]bool{strings.TrimSuffix(home.URL, "/"): true}
	var urls []string

	for _, link := range home.Links {
		if len(urls) >= maxSubPages {
			break
		}
		if seen[link] || !matchesKeyword(link) {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
	}

	if len(urls) < 2 {
		base, err := url.Parse(home.URL)
		if err == nil {
			for _, path := range commonPaths {
				if len(urls) >= maxSubPages {
					break
				}
				candidate := base.Scheme + "://" + base.Host + path
				if seen[candidate] {
					continue
				}
				seen[candidate] = true

				ok, status, err := fetch.Exists(ctx, candidate, opts.ProbeTimeout)
				attempt := types.FetchAttempt{URL: candidate, StatusCode: status}
				switch {
				case err != nil && fetch.IsTimeout(err):
					attempt.Outcome = types.AttemptTimeout
					attempt.Note = "probe timed out"
				case err != nil:
					attempt.Outcome = types.AttemptError
					attempt.Note = err.Error()
				case !ok:
					attempt.Outcome = types.AttemptNotFound
				default:
					attempt.Outcome = types.AttemptOK
					urls = append(urls, candidate)
				}
				res.Attempts = append(res.Attempts, attempt)
			}
		}
	}

	return urls
}

func matchesKeyword(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := strings.ToLower(strings.Trim(parsed.Path, "/"))
	if path == "" {
		return false
	}
	for _, kw := range subPageKeywords {
		if path == kw || strings.HasPrefix(path, kw+"/") || strings.HasSuffix(path, "/"+kw) {
			return true
		}
	}
	return false
}

// classifyError maps a failed fetch to a diagnostic outcome.
func classifyError(result *fetch.Result, err error) types.AttemptOutcome {
	if result != nil {
		switch {
		case result.StatusCode == 401 || result.StatusCode == 403 || result.StatusCode == 429:
			return types.AttemptBlocked
		case result.StatusCode == 404 || result.StatusCode == 410:
			return types.AttemptNotFound
		}
	}
	if fetch.IsTimeout(err) {
		return types.AttemptTimeout
	}
	return types.AttemptError
}
