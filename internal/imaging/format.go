package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Format is the pixel format a panel accepts.
type Format int

const (
	// FormatMono is 1 bit per pixel, black or white.
	FormatMono Format = iota
	// FormatRGB is full colour; the driver reduces it to the panel palette.
	FormatRGB
)

func (f Format) String() string {
	if f == FormatRGB {
		return "rgb"
	}
	return "mono"
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FormatFor returns FormatRGB for colour-capable panels and FormatMono otherwise.
func FormatFor(hasColor bool) Format {
	if hasColor {
		return FormatRGB
	}
	return FormatMono
}

// AdaptOptions controls the monochrome conversion.
type AdaptOptions struct {
	// Dither enables Floyd-Steinberg error diffusion. When false, pixels are
	// thresholded at Threshold instead.
	Dither bool

	// Threshold is the luminance (0-255) at or above which a pixel turns
	// white when dithering is disabled.
	Threshold uint8
}

// DefaultAdaptOptions dithers, matching what most photo content needs.
func DefaultAdaptOptions() AdaptOptions {
	return AdaptOptions{Dither: true, Threshold: 128}
}

// Adapt converts img to the given panel format.
//
// Transparency is always flattened onto white first. FormatRGB yields an
// opaque *image.RGBA; FormatMono yields an *image.Paletted using MonoPalette.
// The result is anchored at (0,0).
func Adapt(img image.Image, f Format, opts AdaptOptions) image.Image {
	flat := flatten(img)
	if f == FormatRGB {
		return toRGB(flat)
	}
	return toMono(flat, opts)
}

func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1.0)
}

func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func toMono(img image.Image, opts AdaptOptions) *image.Paletted {
	var src image.Image
	if opts.Dither {
		src = effect.Grayscale(img)
	} else {
		src = segment.Threshold(img, opts.Threshold)
	}

	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), MonoPalette)
	if opts.Dither {
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, b.Min)
	} else {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	}
	return dst
}
