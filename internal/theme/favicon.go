package theme

import (
	"bytes"
	"context"
	"image"
	"net/url"
	"sort"
	"strings"
	"time"

	_ "image/gif"  // favicon decoders
	_ "image/jpeg" //
	_ "image/png"  //

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/fetch"
)

// maxSamplePixels bounds how many pixels get sampled from large icons.
const maxSamplePixels = 64 * 64

// sampleIcon fetches the icon and returns its dominant usable color.
// Vector icons are scanned for literal color values instead of decoded.
func sampleIcon(ctx context.Context, iconURL string, timeout time.Duration) (RGB, bool) {
	result, err := fetch.URL(ctx, iconURL, &fetch.Options{
		Timeout:   timeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil || len(result.Body) == 0 {
		return RGB{}, false
	}

	if isSVG(result.ContentType, iconURL, result.Body) {
		for _, c := range FindColors(string(result.Body)) {
			if Usable(c) {
				return c, true
			}
		}
		return RGB{}, false
	}

	img, _, err := image.Decode(bytes.NewReader(result.Body))
	if err != nil {
		return RGB{}, false
	}
	return dominantColor(img)
}

func isSVG(contentType, iconURL string, body []byte) bool {
	if strings.Contains(contentType, "svg") || strings.HasSuffix(strings.ToLower(iconURL), ".svg") {
		return true
	}
	head := body
	if len(head) > 256 {
		head = head[:256]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// dominantColor buckets pixels by quantized color and scores each bucket
// by frequency weighted by saturation, so a vivid-but-less-frequent color
// beats a frequent gray. The first bucket passing the usability filter
// wins.
func dominantColor(img image.Image) (RGB, bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return RGB{}, false
	}

	// Stride so at most maxSamplePixels pixels are visited.
	stride := 1
	for (w/stride)*(h/stride) > maxSamplePixels {
		stride++
	}

	type bucket struct {
		count   int
		r, g, b int // sums for averaging
	}
	buckets := make(map[uint32]*bucket)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 < 0x8000 {
				continue // transparent
			}
			r, g, b := uint8(r16>>8), uint8(g16>>8), uint8(b16>>8)
			// 4 bits per channel quantization.
			key := uint32(r>>4)<<8 | uint32(g>>4)<<4 | uint32(b>>4)
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += int(r)
			bk.g += int(g)
			bk.b += int(b)
		}
	}
	if len(buckets) == 0 {
		return RGB{}, false
	}

	type scored struct {
		color RGB
		score float64
	}
	ranked := make([]scored, 0, len(buckets))
	for _, bk := range buckets {
		avg := RGB{
			uint8(bk.r / bk.count),
			uint8(bk.g / bk.count),
			uint8(bk.b / bk.count),
		}
		_, s, _ := avg.HSL()
		ranked = append(ranked, scored{color: avg, score: float64(bk.count) * (0.2 + s)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].color.Hex() < ranked[j].color.Hex()
	})

	for _, cand := range ranked {
		if Usable(cand.color) {
			return cand.color, true
		}
	}
	return RGB{}, false
}

func absoluteURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
