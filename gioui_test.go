package main

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Miuzarte/FpsOverlay/config"
	"github.com/Miuzarte/FpsOverlay/fps"
	"github.com/Miuzarte/FpsOverlay/refresh"
	"github.com/Miuzarte/FpsOverlay/sysinfo"
)

// newTestOverlay builds an overlay on the display driver without opening a
// window.
func newTestOverlay(t *testing.T) (*overlay, *refresh.Manual) {
	t.Helper()
	manual := &refresh.Manual{}
	ov := &overlay{
		ctx:        context.Background(),
		cfg:        config.Default(),
		manual:     manual,
		identity:   sysinfo.Identity{CPU: "Test CPU", GPU: "Test GPU"},
		invalidate: func() {},
	}
	ov.monitor = refresh.NewMonitor(fps.NewSampler(ov), manual)
	t.Cleanup(func() { ov.monitor.Stop() })

	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	return ov, manual
}

func fireUntilAccepted(t *testing.T, m *refresh.Manual, now time.Time) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !m.Fire(now) {
		if time.Now().After(deadline) {
			t.Fatal("driver never accepted a tick")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOverlayLinesBeforeStart(t *testing.T) {
	ov, _ := newTestOverlay(t)
	if got := ov.lines(); !slices.Equal(got, []string{startHint}) {
		t.Fatalf("lines = %q", got)
	}
}

func TestOverlayLinesRunningThenPaused(t *testing.T) {
	ov, manual := newTestOverlay(t)
	ov.start()
	fireUntilAccepted(t, manual, time.Now().Add(time.Second))

	first := ov.lines()[0]
	if !strings.HasPrefix(first, "FPS: ") || !strings.HasSuffix(first, "| 1% Low: --") {
		t.Fatalf("running line %q", first)
	}

	ov.toggle()
	if ov.monitor.Running() {
		t.Fatal("toggle did not stop monitoring")
	}
	if paused := ov.lines()[0]; paused != first+" (paused)" {
		t.Fatalf("paused line %q, want %q", paused, first+" (paused)")
	}
}

func TestOverlayLinesSystemInfo(t *testing.T) {
	ov, _ := newTestOverlay(t)

	ov.showInfo = true
	if got := ov.lines(); !slices.Equal(got, []string{startHint, "CPU: Test CPU", "GPU: Test GPU"}) {
		t.Fatalf("lines = %q", got)
	}

	u := sysinfo.Usage{CPUPercent: 2, RSS: 32 << 20, RSSPercent: 0.5}
	ov.setUsage(u)
	if got := ov.lines(); got[len(got)-1] != u.String() {
		t.Fatalf("lines = %q, want usage last", got)
	}

	ov.shortcutToggleInfo("H", 0)
	if got := ov.lines(); len(got) != 1 {
		t.Fatalf("lines = %q after hiding system info", got)
	}
}

func TestApplyConfigKeepsDriverSettings(t *testing.T) {
	ov, _ := newTestOverlay(t)

	reloaded := config.Default()
	reloaded.Driver = config.DriverFixed
	reloaded.NominalRate = 144
	reloaded.Display = 1
	reloaded.FontSize = 20
	reloaded.ShowSystemInfo = false
	ov.applyConfig(reloaded)

	if ov.cfg.Driver != config.DriverDisplay || ov.cfg.NominalRate != 60 || ov.cfg.Display != config.PrimaryDisplay {
		t.Fatalf("driver settings changed on reload: %+v", ov.cfg)
	}
	if ov.cfg.FontSize != 20 || ov.showInfo {
		t.Fatalf("presentation settings not applied: %+v", ov.cfg)
	}
	if !ov.platformDirty {
		t.Fatal("window styles not marked for reapplying")
	}
}

func TestApplyConfigKeepsFlagOverrides(t *testing.T) {
	ov, _ := newTestOverlay(t)

	flags := &OverlayFlags{LogLevel: "debug"}
	ov.pin = flags.overrides(func(name string) bool { return name == "log-level" })

	reloaded := config.Default()
	reloaded.FontSize = 18
	ov.applyConfig(reloaded)

	if ov.cfg.LogLevel != "debug" {
		t.Fatalf("log level %q, want the flag value", ov.cfg.LogLevel)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level %v", zerolog.GlobalLevel())
	}
	if ov.cfg.FontSize != 18 {
		t.Fatalf("font size %v, want the reloaded value", ov.cfg.FontSize)
	}
}
