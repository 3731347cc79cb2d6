package panel

import (
	"context"
	"fmt"
	"image"
)

// Driver is an opened panel.
//
// Init must be called once before Bounds or Display; Close releases the
// hardware and is safe to call after a failed Init.
type Driver interface {
	Descriptor() Descriptor
	Init(ctx context.Context) error
	Bounds() image.Rectangle
	Display(ctx context.Context, img image.Image) error
	Close() error
}

// Packer is implemented by drivers whose descriptor uses SequenceBuffered.
type Packer interface {
	// Pack converts a frame into the device buffer layout.
	Pack(img image.Image) ([]byte, error)

	// DisplayBuffer sends a packed buffer to the panel.
	DisplayBuffer(ctx context.Context, buf []byte) error
}

// Dimensions returns the panel size in pixels.
//
// Dimensions the descriptor leaves at zero are taken from the driver's
// Bounds. A non-empty Bounds that disagrees with the descriptor is an error,
// since frames rendered without hardware use the descriptor size.
func Dimensions(d Driver) (int, int, error) {
	desc := d.Descriptor()
	b := d.Bounds()
	w, h := desc.Width, desc.Height
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrDimensions, desc.Model)
	}
	if !b.Empty() && (b.Dx() != w || b.Dy() != h) {
		return 0, 0, fmt.Errorf("%w: %s driver reports %dx%d, registered as %dx%d", ErrDimensions, desc.Model, b.Dx(), b.Dy(), w, h)
	}
	return w, h, nil
}

// Present sends one frame to d using the call sequence of its descriptor.
func Present(ctx context.Context, d Driver, img image.Image) error {
	desc := d.Descriptor()
	if desc.Sequence != SequenceBuffered {
		return d.Display(ctx, img)
	}

	p, ok := d.(Packer)
	if !ok {
		return fmt.Errorf("%w: %s expects a packed buffer but its driver cannot produce one", ErrUnsupportedDriver, desc.Model)
	}
	buf, err := p.Pack(img)
	if err != nil {
		return fmt.Errorf("pack frame for %s: %w", desc.Model, err)
	}
	return p.DisplayBuffer(ctx, buf)
}
