package panel

import (
	"image/color"

	"periph.io/x/devices/v3/inky"
)

var (
	black  = color.NRGBA{0, 0, 0, 255}
	white  = color.NRGBA{255, 255, 255, 255}
	red    = color.NRGBA{255, 0, 0, 255}
	yellow = color.NRGBA{255, 255, 0, 255}
	green  = color.NRGBA{0, 255, 0, 255}
	blue   = color.NRGBA{0, 0, 255, 255}
	orange = color.NRGBA{255, 128, 0, 255}
)

// Default is the registry of built-in panels.
var Default = NewRegistry()

func init() {
	registerBuiltins(Default)
}

func registerBuiltins(r *Registry) {
	mono := color.Palette{black, white}

	r.MustRegister(Descriptor{
		Model:       "waveshare2in13v2",
		Vendor:      "Waveshare",
		Description: "2.13in e-Paper HAT V2, black/white",
		Width:       122,
		Height:      250,
		Palette:     mono,
	}, periphFactory(connectWaveshare2in13v2))

	r.MustRegister(Descriptor{
		Model:       "waveshare2in13v4",
		Vendor:      "Waveshare",
		Description: "2.13in e-Paper HAT V4, black/white",
		Width:       122,
		Height:      250,
		Palette:     mono,
	}, periphFactory(connectWaveshare2in13v4))

	inkys := []struct {
		suffix string
		model  inky.Model
		name   string
		w, h   int
	}{
		{"phat", inky.PHAT, "pHAT", 104, 212},
		{"what", inky.WHAT, "wHAT", 400, 300},
	}
	inks := []struct {
		suffix string
		ink    inky.Color
		extra  color.Color
		label  string
	}{
		{"", inky.Black, nil, "black/white"},
		{"-red", inky.Red, red, "black/white/red"},
		{"-yellow", inky.Yellow, yellow, "black/white/yellow"},
	}
	for _, board := range inkys {
		for _, ink := range inks {
			pal := color.Palette{black, white}
			if ink.extra != nil {
				pal = append(pal, ink.extra)
			}
			r.MustRegister(Descriptor{
				Model:       "inky-" + board.suffix + ink.suffix,
				Vendor:      "Pimoroni",
				Description: "Pimoroni Inky " + board.name + ", " + ink.label,
				Width:       board.w,
				Height:      board.h,
				Palette:     pal,
			}, periphFactory(inkyConnector(board.model, ink.ink)))
		}
	}

	r.MustRegister(Descriptor{
		Model:       "epd5in65f",
		Vendor:      "Waveshare",
		Description: "5.65in ACeP 7-colour e-Paper",
		Width:       600,
		Height:      448,
		Color:       true,
		Palette:     color.Palette{black, white, green, blue, red, yellow, orange},
		Sequence:    SequenceBuffered,
	}, nil)

	r.MustRegister(Descriptor{
		Model:       "epd7in5v2",
		Vendor:      "Waveshare",
		Description: "7.5in e-Paper V2, black/white",
		Width:       800,
		Height:      480,
		Palette:     mono,
	}, nil)
}
