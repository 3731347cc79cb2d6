package panel

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/renameio/v2"

	epdimaging "github.com/ironsheep/epd-image/internal/imaging"
)

// Preview is a driver that writes frames to a PNG file instead of a panel.
//
// Frames for panels with a known palette are quantized to it so the file
// shows roughly what the inks would. The file is replaced atomically.
type Preview struct {
	desc Descriptor
	path string
}

// NewPreview returns a preview sink for the panel described by desc.
func NewPreview(desc Descriptor, path string) *Preview {
	desc.Sequence = SequenceBuffered
	return &Preview{desc: desc, path: path}
}

// Descriptor returns the panel descriptor with the buffered call sequence.
func (p *Preview) Descriptor() Descriptor { return p.desc }

// Path returns the output file path.
func (p *Preview) Path() string { return p.path }

// Init makes sure the output directory exists.
func (p *Preview) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("preview: create output directory: %w", err)
	}
	return nil
}

// Bounds returns the panel rectangle.
func (p *Preview) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.desc.Width, p.desc.Height)
}

// Display packs img and writes it out.
func (p *Preview) Display(ctx context.Context, img image.Image) error {
	buf, err := p.Pack(img)
	if err != nil {
		return err
	}
	return p.DisplayBuffer(ctx, buf)
}

// Pack encodes img as PNG, quantized to the panel palette when it has one.
func (p *Preview) Pack(img image.Image) ([]byte, error) {
	if len(p.desc.Palette) > 0 {
		img = epdimaging.Quantize(img, p.desc.Palette)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("preview: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DisplayBuffer writes a packed frame to the output path.
func (p *Preview) DisplayBuffer(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := renameio.WriteFile(p.path, buf, 0o644); err != nil {
		return fmt.Errorf("preview: write %s: %w", p.path, err)
	}
	log.Debugf("preview of %s written to %s (%d bytes)", p.desc.Model, p.path, len(buf))
	return nil
}

// Close is a no-op.
func (p *Preview) Close() error { return nil }
