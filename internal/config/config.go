// Package config resolves epd-image settings from defaults, a TOML file,
// EPD_* environment variables and command-line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/epd-image/internal/panel"
)

const (
	// Name is used for the config file name and directory.
	Name = "epd-image"

	// EnvPrefix is prepended to upper-cased keys, so "model" reads EPD_MODEL.
	EnvPrefix = "EPD"
)

// Keys understood in the config file.
const (
	KeyModel     = "model"
	KeyMode      = "mode"
	KeyRotation  = "rotation"
	KeyRefresh   = "refresh"
	KeyDither    = "dither"
	KeyThreshold = "threshold"
	KeyOutput    = "output"
	KeySPIPort   = "spi_port"
	KeyPinDC     = "pins.dc"
	KeyPinReset  = "pins.reset"
	KeyPinBusy   = "pins.busy"
	KeyLogLevel  = "log_level"
)

// Settings is the resolved configuration.
type Settings struct {
	Model     string     `mapstructure:"model" json:"model"`
	Mode      string     `mapstructure:"mode" json:"mode"`
	Rotation  int        `mapstructure:"rotation" json:"rotation"`
	Refresh   bool       `mapstructure:"refresh" json:"refresh"`
	Dither    bool       `mapstructure:"dither" json:"dither"`
	Threshold uint8      `mapstructure:"threshold" json:"threshold"`
	Output    string     `mapstructure:"output" json:"output"`
	SPIPort   string     `mapstructure:"spi_port" json:"spi_port"`
	Pins      panel.Pins `mapstructure:"pins" json:"pins"`
	LogLevel  string     `mapstructure:"log_level" json:"log_level"`
}

// OpenOptions returns the panel options implied by s.
func (s Settings) OpenOptions() panel.OpenOptions {
	return panel.OpenOptions{Output: s.Output, SPIPort: s.SPIPort, Pins: s.Pins}
}

// New returns a viper instance with defaults and environment binding set up.
// No file is read yet.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults installs the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyMode, "fit")
	v.SetDefault(KeyRotation, 0)
	v.SetDefault(KeyRefresh, true)
	v.SetDefault(KeyDither, true)
	v.SetDefault(KeyThreshold, 128)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeySPIPort, "")
	v.SetDefault(KeyPinDC, panel.DefaultPins.DC)
	v.SetDefault(KeyPinReset, panel.DefaultPins.Reset)
	v.SetDefault(KeyPinBusy, panel.DefaultPins.Busy)
	v.SetDefault(KeyLogLevel, "info")
}

// SearchPaths returns the directories searched for epd-image.toml.
func SearchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, Name))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", Name))
	}
	return append(dirs, filepath.Join("/etc/xdg", Name))
}

// ReadFile loads the config file into v. An explicit path must exist; when
// path is empty the search paths are tried and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("toml")
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper decodes the resolved settings.
func FromViper(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}
