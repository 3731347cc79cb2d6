package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/inky"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

// connector turns an open SPI port into a ready periph display.
type connector func(port spi.Port, desc Descriptor, opts OpenOptions) (display.Drawer, error)

// portOpener opens the named SPI port.
type portOpener func(name string) (spi.PortCloser, error)

// sleeper is implemented by controllers that can power down and keep the
// last image on the glass.
type sleeper interface {
	Sleep() error
}

// periphDriver adapts a periph.io display.Drawer to Driver.
type periphDriver struct {
	desc    Descriptor
	opts    OpenOptions
	connect connector
	open    portOpener

	port spi.PortCloser
	dev  display.Drawer
}

func periphFactory(connect connector) Factory {
	return func(desc Descriptor, opts OpenOptions) (Driver, error) {
		return &periphDriver{desc: desc, opts: opts, connect: connect, open: openSPI}, nil
	}
}

func openSPI(name string) (spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialise periph host: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	return port, nil
}

func (p *periphDriver) Descriptor() Descriptor { return p.desc }

func (p *periphDriver) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	port, err := p.open(p.opts.SPIPort)
	if err != nil {
		return err
	}
	p.port = port

	dev, err := p.connect(port, p.desc, p.opts)
	if err != nil {
		return fmt.Errorf("connect %s: %w", p.desc.Model, err)
	}
	p.dev = dev
	log.Debug("panel connected", "model", p.desc.Model, "device", dev.String(), "bounds", dev.Bounds())
	return nil
}

func (p *periphDriver) Bounds() image.Rectangle {
	if p.dev == nil {
		return image.Rect(0, 0, p.desc.Width, p.desc.Height)
	}
	return p.dev.Bounds()
}

func (p *periphDriver) Display(ctx context.Context, img image.Image) error {
	if p.dev == nil {
		return fmt.Errorf("%s: display called before init", p.desc.Model)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.dev.Draw(p.dev.Bounds(), img, img.Bounds().Min)
}

func (p *periphDriver) Close() error {
	var errs []error
	if p.dev != nil {
		// Halt on the waveshare HATs blanks the panel.
		if s, ok := p.dev.(sleeper); ok {
			errs = append(errs, s.Sleep())
		} else {
			errs = append(errs, p.dev.Halt())
		}
		p.dev = nil
	}
	if p.port != nil {
		errs = append(errs, p.port.Close())
		p.port = nil
	}
	return errors.Join(errs...)
}

func connectWaveshare2in13v2(port spi.Port, _ Descriptor, _ OpenOptions) (display.Drawer, error) {
	opts := waveshare2in13v2.EPD2in13v2
	dev, err := waveshare2in13v2.NewHat(port, &opts)
	if err != nil {
		return nil, err
	}
	if err := dev.Init(); err != nil {
		return nil, err
	}
	return dev, nil
}

func connectWaveshare2in13v4(port spi.Port, _ Descriptor, _ OpenOptions) (display.Drawer, error) {
	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		return nil, err
	}
	if err := dev.Init(); err != nil {
		return nil, err
	}
	if err := dev.Clear(color.White); err != nil {
		return nil, err
	}
	return dev, nil
}

func inkyConnector(model inky.Model, ink inky.Color) connector {
	return func(port spi.Port, desc Descriptor, opts OpenOptions) (display.Drawer, error) {
		dc, reset, busy, err := inkyPins(opts.Pins)
		if err != nil {
			return nil, err
		}
		// inky.New zeroes its bounds unless a size is given.
		dev, err := inky.New(port, dc, reset, busy, &inky.Opts{
			Width:       desc.Width,
			Height:      desc.Height,
			Model:       model,
			ModelColor:  ink,
			BorderColor: inky.White,
		})
		if err != nil {
			return nil, err
		}
		return dev, nil
	}
}

func inkyPins(pins Pins) (gpio.PinOut, gpio.PinOut, gpio.PinIn, error) {
	pins = withDefaultPins(pins)
	dc := gpioreg.ByName(pins.DC)
	if dc == nil {
		return nil, nil, nil, fmt.Errorf("%w: no GPIO pin named %q for dc", ErrConfig, pins.DC)
	}
	reset := gpioreg.ByName(pins.Reset)
	if reset == nil {
		return nil, nil, nil, fmt.Errorf("%w: no GPIO pin named %q for reset", ErrConfig, pins.Reset)
	}
	busy := gpioreg.ByName(pins.Busy)
	if busy == nil {
		return nil, nil, nil, fmt.Errorf("%w: no GPIO pin named %q for busy", ErrConfig, pins.Busy)
	}
	return dc, reset, busy, nil
}

func withDefaultPins(p Pins) Pins {
	if p.DC == "" {
		p.DC = DefaultPins.DC
	}
	if p.Reset == "" {
		p.Reset = DefaultPins.Reset
	}
	if p.Busy == "" {
		p.Busy = DefaultPins.Busy
	}
	return p
}
