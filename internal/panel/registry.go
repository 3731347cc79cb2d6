package panel

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Pins names the GPIO lines a HAT-style panel is wired to, using periph
// gpioreg names such as "GPIO22" or "22".
type Pins struct {
	DC    string `mapstructure:"dc" json:"dc"`
	Reset string `mapstructure:"reset" json:"reset"`
	Busy  string `mapstructure:"busy" json:"busy"`
}

// DefaultPins is the wiring of Pimoroni Inky boards on a Raspberry Pi header.
var DefaultPins = Pins{DC: "22", Reset: "27", Busy: "17"}

// OpenOptions controls how Registry.Open builds a driver.
type OpenOptions struct {
	// Output, when set, renders frames to this PNG path instead of hardware.
	Output string

	// SPIPort is the periph spireg port name; empty selects the first port.
	SPIPort string

	// Pins overrides DefaultPins for panels that need explicit GPIO lines.
	Pins Pins
}

// maxPaletteSize is the most inks a paletted frame can index.
const maxPaletteSize = 256

// Factory builds a hardware driver for desc.
type Factory func(desc Descriptor, opts OpenOptions) (Driver, error)

type entry struct {
	desc    Descriptor
	factory Factory
}

// Registry maps model names to descriptors and driver factories.
//
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a panel. factory may be nil for panels without a hardware
// backend; those can still be opened against the preview sink.
func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if desc.Model == "" {
		return errors.New("panel: descriptor has no model name")
	}
	if desc.Width < 0 || desc.Height < 0 {
		return fmt.Errorf("panel: %s has negative dimensions %dx%d", desc.Model, desc.Width, desc.Height)
	}
	if len(desc.Palette) > maxPaletteSize {
		return fmt.Errorf("panel: %s palette has %d colours, at most %d are supported", desc.Model, len(desc.Palette), maxPaletteSize)
	}
	desc.Hardware = factory != nil

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[desc.Model]; ok {
		return fmt.Errorf("panel: %s already registered", desc.Model)
	}
	r.entries[desc.Model] = entry{desc: desc, factory: factory}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(desc Descriptor, factory Factory) {
	if err := r.Register(desc, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor of model.
func (r *Registry) Lookup(model string) (Descriptor, error) {
	e, err := r.entry(model)
	if err != nil {
		return Descriptor{}, err
	}
	return e.desc, nil
}

// Models returns the registered model names in sorted order.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.entries))
	for m := range r.entries {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Descriptors returns every registered descriptor sorted by model.
func (r *Registry) Descriptors() []Descriptor {
	models := r.Models()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(models))
	for _, m := range models {
		out = append(out, r.entries[m].desc)
	}
	return out
}

// Open builds a driver for model. The driver is not initialised.
func (r *Registry) Open(model string, opts OpenOptions) (Driver, error) {
	e, err := r.entry(model)
	if err != nil {
		return nil, err
	}

	var d Driver
	switch {
	case opts.Output != "":
		d = NewPreview(e.desc, opts.Output)
	case e.factory == nil:
		return nil, fmt.Errorf("%w: %s has no hardware backend; render it to a file with an output path", ErrUnsupportedDriver, model)
	default:
		d, err = e.factory(e.desc, opts)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", model, err)
		}
	}

	if d.Descriptor().Sequence == SequenceBuffered {
		if _, ok := d.(Packer); !ok {
			return nil, fmt.Errorf("%w: %s driver lacks buffer conversion", ErrUnsupportedDriver, model)
		}
	}
	return d, nil
}

func (r *Registry) entry(model string) (entry, error) {
	if model == "" {
		return entry{}, fmt.Errorf("%w: EPD model not specified", ErrConfig)
	}

	r.mu.RLock()
	e, ok := r.entries[model]
	r.mu.RUnlock()
	if !ok {
		return entry{}, fmt.Errorf("%w: unknown EPD model %q (known: %s)", ErrConfig, model, strings.Join(r.Models(), ", "))
	}
	return e, nil
}
