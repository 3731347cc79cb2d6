package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// chromaThreshold is the HCL chroma above which a palette entry counts as a
// real colour. Panel "white" is often slightly tinted (chroma around 0.1).
const chromaThreshold = 0.15

// MonoPalette is the two-entry palette of a black/white panel. Index 0 is black.
var MonoPalette = color.Palette{color.Black, color.White}

// IsChromatic reports whether c is a hue rather than black, white or grey.
//
// Fully transparent colours are never chromatic.
func IsChromatic(c color.Color) bool {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	_, chroma, _ := cf.Hcl()
	return chroma > chromaThreshold
}

// PaletteHasColor reports whether any entry of p is chromatic.
func PaletteHasColor(p color.Palette) bool {
	for _, c := range p {
		if IsChromatic(c) {
			return true
		}
	}
	return false
}

// Quantize maps every pixel of img to the perceptually nearest entry of p.
//
// Distances are measured in CIE L*a*b*, which keeps skin tones and skies on
// sensible entries where plain RGB distance picks muddy ones. No error
// diffusion is applied. An empty palette falls back to MonoPalette, and only
// the first 256 entries of a longer one are used.
func Quantize(img image.Image, p color.Palette) *image.Paletted {
	if len(p) == 0 {
		p = MonoPalette
	}
	if len(p) > 256 {
		p = p[:256]
	}

	labs := make([]colorful.Color, len(p))
	for i, c := range p {
		labs[i], _ = colorful.MakeColor(c)
	}

	bounds := img.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), p)

	nearest := make(map[uint32]uint8)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			key := (r>>8)<<16 | (g>>8)<<8 | b>>8

			idx, ok := nearest[key]
			if !ok {
				src := colorful.Color{R: float64(r>>8) / 255, G: float64(g>>8) / 255, B: float64(b>>8) / 255}
				idx = nearestIndex(src, labs)
				nearest[key] = idx
			}
			dst.SetColorIndex(x-bounds.Min.X, y-bounds.Min.Y, idx)
		}
	}
	return dst
}

func nearestIndex(c colorful.Color, palette []colorful.Color) uint8 {
	best, bestDist := 0, -1.0
	for i, p := range palette {
		d := c.DistanceLab(p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
