package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/epd-image/internal/config"
	"github.com/ironsheep/epd-image/internal/panel"
)

func registerFlags(rootCmd *cobra.Command, a *app) {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/epd-image/epd-image.toml)")
	pf.Bool("show-config", false, "Dump resolved config")
	pf.BoolP("debug", "d", false, "Enable debug logging")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolP("version", "v", false, "Print version")

	// Panel selection and wiring is shared with serve.
	pf.StringP("model", "m", "", "Panel model (see 'epd-image panels'); falls back to $EPD_MODEL")
	pf.String("spi-port", "", "periph SPI port name (default first available)")
	pf.String("pin-dc", panel.DefaultPins.DC, "GPIO pin for data/command")
	pf.String("pin-reset", panel.DefaultPins.Reset, "GPIO pin for reset")
	pf.String("pin-busy", panel.DefaultPins.Busy, "GPIO pin for busy")
	pf.Uint8("threshold", 128, "Luminance cut-off used when dithering is off")

	f := rootCmd.Flags()
	f.String("mode", "fit", "Sizing mode: fit, fill or stretch")
	f.IntP("rotation", "r", 0, "Clockwise rotation in degrees: 0, 90, 180 or 270")
	f.Bool("refresh", true, "Refresh the panel after updating (always full refresh)")
	f.Bool("dither", true, "Dither when reducing to black and white")
	f.StringP("output", "o", "", "Write a PNG preview here instead of driving the panel")

	bind(a.v, pf, map[string]string{
		"debug":             "debug",
		config.KeyLogLevel:  "log-level",
		config.KeyModel:     "model",
		config.KeySPIPort:   "spi-port",
		config.KeyPinDC:     "pin-dc",
		config.KeyPinReset:  "pin-reset",
		config.KeyPinBusy:   "pin-busy",
		config.KeyThreshold: "threshold",
	})
	bind(a.v, f, map[string]string{
		config.KeyMode:     "mode",
		config.KeyRotation: "rotation",
		config.KeyRefresh:  "refresh",
		config.KeyDither:   "dither",
		config.KeyOutput:   "output",
	})
}

// bind maps config keys to flags so a flag set on the command line wins over
// the config file and environment.
func bind(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
