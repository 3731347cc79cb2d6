package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropCenter cuts a width x height region out of the middle of img.
//
// The left and top offsets are the floor of half the slack in each dimension,
// so when the slack is odd the extra pixel is trimmed from the right or bottom
// edge. The region must fit inside img.
func CropCenter(img image.Image, width, height int) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop size %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	if width > bounds.Dx() || height > bounds.Dy() {
		return nil, fmt.Errorf("%w: crop size %dx%d larger than image %dx%d",
			ErrInvalidArgument, width, height, bounds.Dx(), bounds.Dy())
	}

	left := bounds.Min.X + (bounds.Dx()-width)/2
	top := bounds.Min.Y + (bounds.Dy()-height)/2
	return Crop(img, image.Rect(left, top, left+width, top+height))
}

// Crop extracts a rectangular region from an image.
//
// The region uses image coordinates: Min is inclusive, Max is exclusive. It
// must be non-empty and lie within the image bounds.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("%w: crop region %v outside image bounds %v", ErrInvalidArgument, r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("%w: crop region %v is empty", ErrInvalidArgument, r)
	}

	return imaging.Crop(img, r), nil
}
