// Package theme derives a brand visual theme for a subject by cascading
// through extraction strategies: site CSS, favicon color sampling, and a
// deterministic name-derived palette.
package theme

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as a lowercase #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSL returns hue in degrees [0,360) and saturation/lightness in [0,1].
func (c RGB) HSL() (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2

	if maxC == minC {
		return 0, 0, l
	}

	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, l
}

// FromHSL converts hue [0,360), saturation and lightness [0,1] to RGB.
func FromHSL(h, s, l float64) RGB {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return RGB{v, v, v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	conv := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 1.0/2:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}

	return RGB{conv(h + 1.0/3), conv(h), conv(h - 1.0/3)}
}

// Usable applies the usability filter: a brand primary must not be
// near-white, near-black, or a low-saturation gray.
func Usable(c RGB) bool {
	_, s, l := c.HSL()
	return l <= 0.92 && l >= 0.12 && s >= 0.15
}

var (
	hexColorRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbColorRe = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
)

// ParseColor parses #rgb, #rrggbb and rgb()/rgba() notations.
func ParseColor(raw string) (RGB, bool) {
	raw = strings.TrimSpace(raw)

	if m := rgbColorRe.FindStringSubmatch(raw); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return RGB{}, false
		}
		return RGB{uint8(r), uint8(g), uint8(b)}, true
	}

	if !strings.HasPrefix(raw, "#") {
		return RGB{}, false
	}
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// FindColors extracts every parseable color literal from a blob of text,
// in order of appearance.
func FindColors(text string) []RGB {
	var out []RGB
	for _, m := range hexColorRe.FindAllString(text, -1) {
		if c, ok := ParseColor(m); ok {
			out = append(out, c)
		}
	}
	for _, m := range rgbColorRe.FindAllString(text, -1) {
		if c, ok := ParseColor(m); ok {
			out = append(out, c)
		}
	}
	return out
}
