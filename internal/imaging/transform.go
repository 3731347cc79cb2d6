package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ErrInvalidArgument is wrapped by every argument validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// Mode selects how an image is sized to the panel.
type Mode string

const (
	ModeFit     Mode = "fit"
	ModeFill    Mode = "fill"
	ModeStretch Mode = "stretch"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeFit, ModeFill, ModeStretch}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeFit, ModeFill, ModeStretch:
		return m, nil
	}
	return "", fmt.Errorf("%w: mode must be one of: fit, fill, stretch (got %q)", ErrInvalidArgument, s)
}

// Rotation is a clockwise rotation in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// ParseRotation validates a rotation given in degrees.
func ParseRotation(deg int) (Rotation, error) {
	switch r := Rotation(deg); r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return r, nil
	}
	return 0, fmt.Errorf("%w: rotation must be one of: 0, 90, 180, 270 (got %d)", ErrInvalidArgument, deg)
}

// Transform rotates img clockwise and sizes it to exactly width x height
// according to mode.
//
// The rotation is applied first and expands the canvas, so a 90 or 270 degree
// rotation swaps the source dimensions before any scaling decision is made.
//
// Returns an error wrapping ErrInvalidArgument for an unknown mode or
// rotation, a non-positive target size, or an empty source image.
func Transform(img image.Image, width, height int, mode Mode, rotation Rotation) (*image.NRGBA, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: source image is empty", ErrInvalidArgument)
	}

	rotated, err := Rotate(img, rotation)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeStretch:
		return imaging.Resize(rotated, width, height, imaging.Lanczos), nil
	case ModeFit:
		return fit(rotated, width, height), nil
	default:
		return fill(rotated, width, height)
	}
}

// Rotate turns img clockwise by r degrees.
func Rotate(img image.Image, r Rotation) (*image.NRGBA, error) {
	// imaging rotates counter-clockwise.
	switch r {
	case Rotate0:
		return imaging.Clone(img), nil
	case Rotate90:
		return imaging.Rotate270(img), nil
	case Rotate180:
		return imaging.Rotate180(img), nil
	case Rotate270:
		return imaging.Rotate90(img), nil
	}
	return nil, fmt.Errorf("%w: rotation must be one of: 0, 90, 180, 270 (got %d)", ErrInvalidArgument, int(r))
}

// ScaledSize returns the size a srcW x srcH image is resized to before it is
// padded (fit) or cropped (fill) to dstW x dstH.
//
// The source and destination aspect ratios decide which dimension constrains
// the scale: a source wider than the destination is bound by width under fit
// and by height under fill, and the other way round otherwise. Results are
// rounded half to even and never smaller than one pixel.
func ScaledSize(srcW, srcH, dstW, dstH int, mode Mode) (int, int) {
	if mode == ModeStretch {
		return dstW, dstH
	}

	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(dstW) / float64(dstH)
	wider := srcRatio > dstRatio

	var w, h int
	if (mode == ModeFit) == wider {
		w = dstW
		h = int(math.RoundToEven(float64(dstW) / srcRatio))
	} else {
		h = dstH
		w = int(math.RoundToEven(float64(dstH) * srcRatio))
	}
	return max(w, 1), max(h, 1)
}

// fit letterboxes or pillarboxes img on a white canvas.
func fit(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), width, height, ModeFit)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	canvas := imaging.New(width, height, color.White)
	offset := image.Pt((width-w)/2, (height-h)/2)
	return imaging.Overlay(canvas, resized, offset, 1.0)
}

// fill covers the whole target and trims the overflow evenly from both sides.
func fill(img image.Image, width, height int) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), width, height, ModeFill)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	return CropCenter(resized, width, height)
}
