// Package config loads the overlay settings from a YAML file and watches it
// for changes.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "Config").Logger()

var ErrInvalid = errors.New("invalid config")

const (
	DriverDisplay = "display"
	DriverFixed   = "fixed"
	DriverDesktop = "desktop"
)

const PrimaryDisplay = -1

type Config struct {
	// Driver selects what paces the sampler: display, fixed or desktop.
	Driver      string `yaml:"driver"`
	NominalRate int    `yaml:"nominalRate"`
	// Display is used by the desktop driver, -1 picks the largest one.
	Display   int  `yaml:"display"`
	AutoStart bool `yaml:"autoStart"`

	AlwaysOnTop     bool    `yaml:"alwaysOnTop"`
	ClickThrough    bool    `yaml:"clickThrough"`
	FontSize        float32 `yaml:"fontSize"`
	TextColor       string  `yaml:"textColor"`
	BackgroundColor string  `yaml:"backgroundColor"`
	ShowSystemInfo  bool    `yaml:"showSystemInfo"`

	LogLevel string `yaml:"logLevel"`
}

func Default() Config {
	return Config{
		Driver:          DriverDisplay,
		NominalRate:     60,
		Display:         PrimaryDisplay,
		AlwaysOnTop:     true,
		ClickThrough:    true,
		FontSize:        14,
		TextColor:       "#00FF00",
		BackgroundColor: "#000000B0",
		ShowSystemInfo:  true,
		LogLevel:        "info",
	}
}

// Path returns the default config location:
//
//	<UserConfigDir>/FpsOverlay/config.yaml
//
// The directory is not guaranteed to exist.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "FpsOverlay", "config.yaml"), nil
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes c to path, creating its directory.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverDisplay, DriverFixed, DriverDesktop:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	if c.NominalRate <= 0 || c.NominalRate > 1000 {
		return fmt.Errorf("%w: nominalRate %d out of (0, 1000]", ErrInvalid, c.NominalRate)
	}
	if c.Display < PrimaryDisplay {
		return fmt.Errorf("%w: display %d", ErrInvalid, c.Display)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: fontSize %v", ErrInvalid, c.FontSize)
	}
	if _, err := ParseColor(c.TextColor); err != nil {
		return fmt.Errorf("%w: textColor: %w", ErrInvalid, err)
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		return fmt.Errorf("%w: backgroundColor: %w", ErrInvalid, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: logLevel: %w", ErrInvalid, err)
	}
	return nil
}

// Level returns the configured log level, info if unparsable.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "FF"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
