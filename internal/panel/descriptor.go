package panel

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ironsheep/epd-image/internal/imaging"
)

var (
	// ErrConfig reports a missing or unknown panel model.
	ErrConfig = errors.New("configuration error")

	// ErrUnsupportedDriver reports a driver that cannot run the call
	// sequence its panel needs.
	ErrUnsupportedDriver = errors.New("unsupported driver")

	// ErrDimensions reports a panel whose pixel size cannot be determined
	// or does not match its descriptor.
	ErrDimensions = errors.New("could not determine display dimensions from driver")
)

// Sequence is the call sequence a driver expects for one frame.
type Sequence int

const (
	// SequenceDirect drivers take an image in Display.
	SequenceDirect Sequence = iota
	// SequenceBuffered drivers take a packed buffer in DisplayBuffer.
	SequenceBuffered
)

func (s Sequence) String() string {
	switch s {
	case SequenceDirect:
		return "direct"
	case SequenceBuffered:
		return "buffered"
	}
	return fmt.Sprintf("Sequence(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Sequence) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Descriptor is the fixed capability record of a panel model.
type Descriptor struct {
	// Model is the registry key, e.g. "waveshare2in13v2".
	Model string `json:"model"`

	// Vendor and Description are informational.
	Vendor      string `json:"vendor"`
	Description string `json:"description"`

	// Width and Height are the native pixel dimensions. Zero means the
	// driver reports its size through Bounds once initialised.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Color marks panels that accept RGB frames even when Palette is empty.
	Color bool `json:"color"`

	// Palette lists the inks the panel can show, if known.
	Palette color.Palette `json:"-"`

	// Sequence is the call sequence the driver expects.
	Sequence Sequence `json:"sequence"`

	// Hardware is true when the registry has a hardware backend for the model.
	Hardware bool `json:"hardware"`
}

// SupportsColor reports whether frames for this panel should keep colour.
func (d Descriptor) SupportsColor() bool {
	return d.Color || imaging.PaletteHasColor(d.Palette)
}

// Format is the pixel format frames for this panel are converted to.
func (d Descriptor) Format() imaging.Format {
	return imaging.FormatFor(d.SupportsColor())
}

// Colors returns the palette as "#RRGGBB" strings.
func (d Descriptor) Colors() []string {
	out := make([]string, 0, len(d.Palette))
	for _, c := range d.Palette {
		r, g, b, _ := c.RGBA()
		out = append(out, fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8)))
	}
	return out
}
