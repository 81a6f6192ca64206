package config

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "driver: fixed\nnominalRate: 144\nfontSize: 18\nlogLevel: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Driver != DriverFixed || cfg.NominalRate != 144 || cfg.FontSize != 18 {
		t.Fatalf("got %+v", cfg)
	}
	if !cfg.ShowSystemInfo || cfg.TextColor != Default().TextColor {
		t.Fatalf("unset fields lost their defaults: %+v", cfg)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("level %v", cfg.Level())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"driver":    "driver: vsync\n",
		"rate":      "nominalRate: 0\n",
		"display":   "display: -2\n",
		"font":      "fontSize: -1\n",
		"color":     "textColor: green\n",
		"log level": "logLevel: loud\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if cfg != Default() {
				t.Fatal("invalid config should fall back to defaults")
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("driver: [fixed\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := Default()
	want.Driver = DriverDesktop
	want.Display = 1
	if err := want.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#00FF00", color.NRGBA{0, 0xFF, 0, 0xFF}, true},
		{"#000000B0", color.NRGBA{0, 0, 0, 0xB0}, true},
		{"a66261ff", color.NRGBA{0xA6, 0x62, 0x61, 0xFF}, true},
		{"#FFF", color.NRGBA{}, false},
		{"#GGGGGG", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := Default().Save(path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c Config) { changes <- c }) }()

	// the watcher has no ready signal; rewrite until one change is seen
	updated := Default()
	updated.FontSize = 22
	deadline := time.After(10 * time.Second)
	for {
		if err := updated.Save(path); err != nil {
			t.Fatal(err)
		}
		select {
		case c := <-changes:
			if c.FontSize != 22 {
				t.Fatalf("reloaded %+v", c)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned %v", err)
			}
			return
		case <-deadline:
			t.Fatal("no reload observed")
		case <-time.After(300 * time.Millisecond):
		}
	}
}
