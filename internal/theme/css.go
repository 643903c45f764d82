package theme

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// brandVarRe matches CSS custom properties that conventionally carry the
// brand color, e.g. --primary, --brand-color, --color-accent.
var brandVarRe = regexp.MustCompile(`--(?:color-)?(?:primary|brand|accent|theme)[\w-]*\s*:\s*([^;}]+)`)

// fontFamilyRe pulls the first font-family declaration out of CSS text.
var fontFamilyRe = regexp.MustCompile(`font-family\s*:\s*([^;}]+)`)

// cssExtract holds what the site-css strategy could recover.
type cssExtract struct {
	primary RGB
	accent  RGB
	font    string
	ok      bool
	hasAcc  bool
}

// fromSiteCSS inspects embedded style blocks and the theme-color meta hint
// for a usable brand color. Brand-variable declarations are preferred over
// arbitrary literals.
func fromSiteCSS(html string) cssExtract {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cssExtract{}
	}

	var styleText strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		styleText.WriteString(s.Text())
		styleText.WriteString("\n")
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("style"); ok {
			styleText.WriteString(v)
			styleText.WriteString("\n")
		}
	})
	css := styleText.String()

	var extract cssExtract

	// Preference 1: brand-named custom properties.
	var brandColors []RGB
	for _, m := range brandVarRe.FindAllStringSubmatch(css, -1) {
		if c, ok := ParseColor(strings.TrimSpace(m[1])); ok && Usable(c) {
			brandColors = append(brandColors, c)
		}
	}
	if len(brandColors) > 0 {
		extract.primary = brandColors[0]
		extract.ok = true
		if len(brandColors) > 1 && brandColors[1] != brandColors[0] {
			extract.accent = brandColors[1]
			extract.hasAcc = true
		}
	}

	// Preference 2: the theme-color meta hint.
	if !extract.ok {
		if tc, found := doc.Find(`meta[name="theme-color"]`).Attr("content"); found {
			if c, ok := ParseColor(tc); ok && Usable(c) {
				extract.primary = c
				extract.ok = true
			}
		}
	}

	// Preference 3: first usable literal anywhere in the styles.
	if !extract.ok {
		for _, c := range FindColors(css) {
			if Usable(c) {
				extract.primary = c
				extract.ok = true
				break
			}
		}
	}

	if m := fontFamilyRe.FindStringSubmatch(css); m != nil {
		font := strings.TrimSpace(m[1])
		font = strings.Trim(font, `"'`)
		if font != "" && !strings.EqualFold(font, "inherit") {
			extract.font = font
		}
	}

	return extract
}

// iconAndLogoURLs extracts favicon and logo URLs from home page markup.
// These are attached to the theme regardless of which color strategy wins.
func iconAndLogoURLs(html, baseURL string) (favicon, logo string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}

	for _, sel := range []string{
		`link[rel="icon"]`, `link[rel="shortcut icon"]`, `link[rel="apple-touch-icon"]`,
	} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			favicon = absoluteURL(baseURL, href)
			break
		}
	}
	if favicon == "" {
		favicon = absoluteURL(baseURL, "/favicon.ico")
	}

	doc.Find(`header img, nav img, img[class*="logo"], img[id*="logo"], img[alt*="logo" i]`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if src, ok := s.Attr("src"); ok && src != "" {
				logo = absoluteURL(baseURL, src)
				return false
			}
			return true
		})

	return favicon, logo
}
