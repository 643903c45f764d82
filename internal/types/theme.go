package types

// ThemeSource records which extraction strategy produced a theme.
type ThemeSource string

// Theme sources
const (
	ThemeFromSiteCSS ThemeSource = "site-css"
	ThemeFromFavicon ThemeSource = "favicon"
	ThemeDefault     ThemeSource = "default"
)

// Theme holds brand visual attributes for a subject. One theme per subject,
// cached by web origin; immutable once produced.
type Theme struct {
	Primary      string      `json:"primary"`
	Accent       string      `json:"accent"`
	Background   string      `json:"background"`
	Text         string      `json:"text"`
	FontFamily   string      `json:"font_family,omitempty"`
	BorderRadius string      `json:"border_radius,omitempty"`
	FaviconURL   string      `json:"favicon_url,omitempty"`
	LogoURL      string      `json:"logo_url,omitempty"`
	Source       ThemeSource `json:"source"`
}
