package display

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/epd-image/internal/imaging"
	"github.com/ironsheep/epd-image/internal/panel"
)

// ModelEnv is the environment variable consulted when a request names no model.
const ModelEnv = "EPD_MODEL"

// Request describes one image to put on a panel.
type Request struct {
	// Path is the image file to show.
	Path string `json:"path"`

	// Mode is "fit", "fill" or "stretch". Empty means fit.
	Mode string `json:"mode"`

	// Rotation is a clockwise rotation in degrees: 0, 90, 180 or 270.
	Rotation int `json:"rotation"`

	// Model is the panel model. Empty falls back to $EPD_MODEL.
	Model string `json:"model"`

	// Refresh is accepted for compatibility; display always triggers a
	// full refresh and no extra work is done for it.
	Refresh bool `json:"refresh"`

	// Dither diffuses error when reducing to monochrome; otherwise pixels
	// are thresholded.
	Dither bool `json:"dither"`

	// Output renders to a PNG file instead of the panel when set.
	Output string `json:"output,omitempty"`
}

// Result reports what was shown.
type Result struct {
	Model    string           `json:"model"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Mode     imaging.Mode     `json:"mode"`
	Rotation imaging.Rotation `json:"rotation"`
	Format   imaging.Format   `json:"format"`
	Sequence panel.Sequence   `json:"sequence"`
	Output   string           `json:"output,omitempty"`
	Refresh  bool             `json:"refresh"`
}

// Displayer pushes images to panels from a registry.
type Displayer struct {
	registry  *panel.Registry
	cache     *imaging.ImageCache
	getenv    func(string) string
	open      panel.OpenOptions
	threshold uint8
}

// Option configures a Displayer.
type Option func(*Displayer)

// WithRegistry replaces panel.Default.
func WithRegistry(r *panel.Registry) Option {
	return func(d *Displayer) { d.registry = r }
}

// WithCache shares an image cache, e.g. with a long-running server.
func WithCache(c *imaging.ImageCache) Option {
	return func(d *Displayer) { d.cache = c }
}

// WithGetenv replaces os.Getenv for the model fallback.
func WithGetenv(fn func(string) string) Option {
	return func(d *Displayer) { d.getenv = fn }
}

// WithOpenOptions sets the SPI port and GPIO pins used for hardware panels.
// The Output field is ignored; each Request carries its own.
func WithOpenOptions(o panel.OpenOptions) Option {
	return func(d *Displayer) { d.open = o }
}

// WithThreshold sets the cut-off used when dithering is disabled.
func WithThreshold(t uint8) Option {
	return func(d *Displayer) { d.threshold = t }
}

// New returns a Displayer using panel.Default unless overridden.
func New(opts ...Option) *Displayer {
	d := &Displayer{
		registry:  panel.Default,
		getenv:    os.Getenv,
		threshold: imaging.DefaultAdaptOptions().Threshold,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Show loads the image in req, fits it to the panel and displays it.
//
// Model, rotation and mode are validated before the panel is opened or the
// image decoded. The driver is always closed once it has been opened.
// Errors are returned as they occur; nothing is retried.
func (d *Displayer) Show(ctx context.Context, req Request) (res *Result, err error) {
	model, mode, rot, err := d.resolve(req)
	if err != nil {
		return nil, err
	}

	opts := d.open
	opts.Output = req.Output
	drv, err := d.registry.Open(model, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := drv.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", model, cerr))
		}
	}()

	if err := drv.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s: %w", model, err)
	}

	width, height, err := panel.Dimensions(drv)
	if err != nil {
		return nil, err
	}

	desc := drv.Descriptor()
	frame, err := d.render(req.Path, width, height, mode, rot, desc, req.Dither)
	if err != nil {
		return nil, err
	}

	log.Debug("presenting frame", "model", model, "size", fmt.Sprintf("%dx%d", width, height), "sequence", desc.Sequence)
	if err := panel.Present(ctx, drv, frame); err != nil {
		return nil, fmt.Errorf("display on %s: %w", model, err)
	}
	if req.Refresh {
		log.Debug("refresh requested; display already refreshed the panel", "model", model)
	}

	log.Info("image displayed", "path", req.Path, "model", model, "mode", mode, "rotation", int(rot))
	return &Result{
		Model:    model,
		Width:    width,
		Height:   height,
		Mode:     mode,
		Rotation: rot,
		Format:   desc.Format(),
		Sequence: desc.Sequence,
		Output:   req.Output,
		Refresh:  req.Refresh,
	}, nil
}

// Render prepares the frame Show would send to the panel without opening it.
// The panel's descriptor dimensions are used.
func (d *Displayer) Render(req Request) (image.Image, *Result, error) {
	model, mode, rot, err := d.resolve(req)
	if err != nil {
		return nil, nil, err
	}
	desc, err := d.registry.Lookup(model)
	if err != nil {
		return nil, nil, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, nil, fmt.Errorf("%w: %s", panel.ErrDimensions, model)
	}

	frame, err := d.render(req.Path, desc.Width, desc.Height, mode, rot, desc, req.Dither)
	if err != nil {
		return nil, nil, err
	}
	return frame, &Result{
		Model:    model,
		Width:    desc.Width,
		Height:   desc.Height,
		Mode:     mode,
		Rotation: rot,
		Format:   desc.Format(),
		Sequence: desc.Sequence,
	}, nil
}

// Registry returns the panel registry in use.
func (d *Displayer) Registry() *panel.Registry { return d.registry }

func (d *Displayer) resolve(req Request) (string, imaging.Mode, imaging.Rotation, error) {
	model := req.Model
	if model == "" {
		model = d.getenv(ModelEnv)
	}
	if model == "" {
		return "", "", 0, fmt.Errorf("%w: EPD model not specified; set %s or pass a model such as waveshare2in13v2", panel.ErrConfig, ModelEnv)
	}

	rot, err := imaging.ParseRotation(req.Rotation)
	if err != nil {
		return "", "", 0, err
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = string(imaging.ModeFit)
	}
	mode, err := imaging.ParseMode(modeName)
	if err != nil {
		return "", "", 0, err
	}
	return model, mode, rot, nil
}

func (d *Displayer) render(path string, width, height int, mode imaging.Mode, rot imaging.Rotation, desc panel.Descriptor, dither bool) (image.Image, error) {
	var (
		src image.Image
		err error
	)
	if d.cache != nil {
		src, err = d.cache.Load(path)
	} else {
		src, err = imaging.Load(path)
	}
	if err != nil {
		return nil, err
	}

	out, err := imaging.Transform(src, width, height, mode, rot)
	if err != nil {
		return nil, err
	}
	return imaging.Adapt(out, desc.Format(), imaging.AdaptOptions{Dither: dither, Threshold: d.threshold}), nil
}
