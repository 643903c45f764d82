package theme

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// CacheTTL is how long a sampled theme stays valid per origin.
const CacheTTL = 24 * time.Hour

// Sampler runs the extraction cascade and caches results by web origin.
// Safe for concurrent use.
type Sampler struct {
	cache       *store.TTLCache[*types.Theme]
	IconTimeout time.Duration
	Verbose     bool
}

// NewSampler creates a sampler with an origin-keyed TTL cache.
func NewSampler() *Sampler {
	return &Sampler{
		cache:       store.NewTTLCache[*types.Theme](CacheTTL),
		IconTimeout: 6 * time.Second,
	}
}

// Sample derives the theme for a subject. homeHTML may be empty when the
// site was unreachable; the name-derived palette still applies then.
// The returned theme is never nil and its primary always passes the
// usability filter. cacheHit reports whether the origin cache served it.
func (s *Sampler) Sample(ctx context.Context, name, homeURL, homeHTML string) (t *types.Theme, cacheHit bool) {
	origin := originOf(homeURL)
	if origin != "" {
		if cached, ok := s.cache.Get(origin); ok {
			return cached, true
		}
	}

	t = s.sample(ctx, name, homeURL, homeHTML)
	if origin != "" {
		s.cache.Put(origin, t)
	}
	return t, false
}

func (s *Sampler) sample(ctx context.Context, name, homeURL, homeHTML string) *types.Theme {
	t := &types.Theme{BorderRadius: "8px"}

	var favicon, logo string
	if homeHTML != "" {
		favicon, logo = iconAndLogoURLs(homeHTML, homeURL)
		t.FaviconURL = favicon
		t.LogoURL = logo
	}

	// Strategy 1: page styles and the theme-color hint.
	if homeHTML != "" {
		if ext := fromSiteCSS(homeHTML); ext.ok {
			t.Source = types.ThemeFromSiteCSS
			t.FontFamily = ext.font
			primary := ext.primary
			accent := ext.accent
			if !ext.hasAcc {
				h, sat, l := primary.HSL()
				accent = FromHSL(h+40, sat, l)
			}
			return s.finish(t, primary, accent)
		}
	}

	// Strategy 2: dominant favicon color.
	if favicon != "" {
		if primary, ok := sampleIcon(ctx, favicon, s.IconTimeout); ok {
			if s.Verbose {
				log.Printf("[THEME] favicon sample for %s: %s", homeURL, primary.Hex())
			}
			t.Source = types.ThemeFromFavicon
			h, sat, l := primary.HSL()
			return s.finish(t, primary, FromHSL(h+40, sat, l))
		}
	}

	// Strategy 3: deterministic name-derived palette.
	t.Source = types.ThemeDefault
	primary, accent := derivedPalette(name)
	return s.finish(t, primary, accent)
}

// finish fills the remaining slots from the chosen primary/accent pair.
func (s *Sampler) finish(t *types.Theme, primary, accent RGB) *types.Theme {
	h, sat, _ := primary.HSL()
	t.Primary = primary.Hex()
	t.Accent = accent.Hex()
	t.Background = FromHSL(h, minF(sat, 0.25), 0.97).Hex()
	t.Text = FromHSL(h, minF(sat, 0.30), 0.14).Hex()
	return t
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func originOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
