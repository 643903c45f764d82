package theme

import (
	"hash/fnv"
	"strings"
)

// derivedPalette builds a deterministic palette from the subject's name
// using FNV-1a, so every distinct subject gets a distinct, stable theme
// even with zero real signal. The hash-to-parameter mapping is explicit:
//
//	hue        = hash mod 360
//	saturation = 0.55 + (hash>>9 mod 21)/100   -> 0.55..0.75
//	lightness  = 0.42 + (hash>>16 mod 13)/100  -> 0.42..0.54
//
// The accent sits 40 degrees around the wheel from the primary.
func derivedPalette(name string) (primary, accent RGB) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	sum := h.Sum64()

	hue := float64(sum % 360)
	sat := 0.55 + float64((sum>>9)%21)/100
	light := 0.42 + float64((sum>>16)%13)/100

	primary = FromHSL(hue, sat, light)
	accent = FromHSL(hue+40, sat, light)
	return primary, accent
}
