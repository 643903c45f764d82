package auxdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pressServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/press", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<article><a href="/press/series-b">Acme raises a Series B to expand payments</a></article>
			<h2><a href="/press/launch">Acme launches a new merchant dashboard</a></h2>
			<h3><a href="/press/hire">Acme hires a new head of engineering</a></h3>
			<a href="/press/short">Too short</a>
			<h2><a href="/press/series-b">Acme raises a Series B to expand payments</a></h2>
		</body></html>`)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
			<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<url><loc>%[1]s/blog/welcome</loc></url>
				<url><loc>%[1]s/press/series-b/</loc></url>
				<url><loc>%[1]s/careers</loc></url>
			</urlset>`, "http://"+r.Host)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return httptest.NewServer(mux)
}

func TestDiscoverPress(t *testing.T) {
	srv := pressServer(t)
	defer srv.Close()

	res := DiscoverPress(context.Background(), srv.URL+"/", time.Second, time.Second)
	require.NotNil(t, res)

	assert.Contains(t, res.PageURLs, srv.URL+"/press", "existing press path should be discovered")
	assert.NotContains(t, res.PageURLs, srv.URL+"/newsroom", "missing paths should be skipped")

	// Sitemap contributes press/news/blog URLs, deduplicated and with
	// trailing slashes trimmed.
	assert.Contains(t, res.PageURLs, srv.URL+"/blog/welcome")
	assert.Contains(t, res.PageURLs, srv.URL+"/press/series-b")
	assert.NotContains(t, res.PageURLs, srv.URL+"/careers")

	require.NotEmpty(t, res.Headlines)
	assert.Contains(t, res.Headlines, "Acme raises a Series B to expand payments")
	assert.Contains(t, res.Headlines, "Acme launches a new merchant dashboard")
	assert.NotContains(t, res.Headlines, "Too short", "headline-length bounds apply")

	seen := make(map[string]int)
	for _, h := range res.Headlines {
		seen[h]++
	}
	assert.Equal(t, 1, seen["Acme raises a Series B to expand payments"], "repeated headlines collapse")
	assert.LessOrEqual(t, len(res.Headlines), maxPressItems)
	assert.LessOrEqual(t, len(res.PageURLs), maxPressItems)
}

func TestDiscoverPressEmptyBaseURL(t *testing.T) {
	res := DiscoverPress(context.Background(), "", time.Second, time.Second)
	require.NotNil(t, res)
	assert.Empty(t, res.PageURLs)
	assert.Empty(t, res.Headlines)
}

func TestDiscoverPressUnreachableSite(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	res := DiscoverPress(context.Background(), srv.URL, 200*time.Millisecond, 200*time.Millisecond)
	require.NotNil(t, res)
	assert.Empty(t, res.PageURLs)
	assert.Empty(t, res.Headlines)
}
