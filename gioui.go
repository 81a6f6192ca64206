package main

import (
	"context"
	"image/color"
	"sync"
	"syscall"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/Miuzarte/FpsOverlay/config"
	"github.com/Miuzarte/FpsOverlay/contextWaitGroup"
	"github.com/Miuzarte/FpsOverlay/fps"
	"github.com/Miuzarte/FpsOverlay/refresh"
	"github.com/Miuzarte/FpsOverlay/sysinfo"
	"github.com/Miuzarte/FpsOverlay/widgets"
)

const startHint = "Click or press Space to start"

// overlay is the presentation sink: it keeps the latest reading and draws
// it together with the cached system identity.
type overlay struct {
	window  app.Window
	ctx     context.Context
	monitor *refresh.Monitor
	manual  *refresh.Manual

	identity sysinfo.Identity
	platform platformWindow

	// invalidate requests a redraw, the window's Invalidate outside tests.
	invalidate func()
	pin        func(config.Config) config.Config

	shortcuts widgets.Shortcuts

	mu            sync.Mutex
	cfg           config.Config
	reading       fps.Reading
	usage         sysinfo.Usage
	hasUsage      bool
	showInfo      bool
	platformDirty bool
}

func (o *OverlayOptions) RunOverlay() error {
	cwg := contextWaitGroup.New(context.Background())
	defer cwg.Cancel()
	stop := cwg.WithSignal(syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raisePriority()

	// identity never changes, query it once instead of every frame
	id := sysinfo.Collect(cwg.Ctx)

	ov := &overlay{
		ctx:      cwg.Ctx,
		identity: id,
		cfg:      o.Config,
		showInfo: o.Config.ShowSystemInfo,
		pin:      o.Pin,
	}
	ov.invalidate = ov.window.Invalidate
	driver, manual := newDriver(o.Config, id)
	ov.manual = manual
	ov.monitor = refresh.NewMonitor(fps.NewSampler(ov), driver)
	ov.shortcuts = ov.newShortcuts()
	ov.window.Option(
		app.Title(appName),
		app.Size(unit.Dp(260), unit.Dp(90)),
		app.MinSize(unit.Dp(200), unit.Dp(40)),
		app.Decorated(false),
	)

	if w, err := sysinfo.NewWatcher(cwg.Ctx, id.TotalMemory); err != nil {
		log.Warn().Err(err).Msg("resource usage unavailable")
	} else {
		cwg.Go("usage", func(ctx context.Context) error {
			w.Run(ctx, ov.setUsage)
			return nil
		})
	}
	cwg.Go("config", func(ctx context.Context) error {
		return config.Watch(ctx, o.ConfigPath, ov.applyConfig)
	})
	cwg.GoCritical("window", ov.loop)
	cwg.Go("close", func(ctx context.Context) error {
		<-ctx.Done()
		// using ctrl c to exit in console
		ov.window.Perform(system.ActionClose)
		return nil
	})

	if o.Config.AutoStart {
		ov.start()
	}

	cwg.Wait()
	ov.monitor.Stop()
	return nil
}

// Render implements fps.Sink.
func (ov *overlay) Render(r fps.Reading) {
	ov.mu.Lock()
	ov.reading = r
	ov.mu.Unlock()

	// the display driver already redraws continuously
	if ov.manual == nil {
		ov.invalidate()
	}
}

func (ov *overlay) setUsage(u sysinfo.Usage) {
	ov.mu.Lock()
	ov.usage = u
	ov.hasUsage = true
	ov.mu.Unlock()
	ov.invalidate()
}

func (ov *overlay) applyConfig(cfg config.Config) {
	if ov.pin != nil {
		cfg = ov.pin(cfg)
	}

	ov.mu.Lock()
	prev := ov.cfg
	if cfg.Driver != prev.Driver || cfg.NominalRate != prev.NominalRate || cfg.Display != prev.Display {
		log.Warn().Msg("driver settings changed, restart to apply")
		cfg.Driver, cfg.NominalRate, cfg.Display = prev.Driver, prev.NominalRate, prev.Display
	}
	ov.cfg = cfg
	ov.showInfo = cfg.ShowSystemInfo
	ov.platformDirty = true
	ov.mu.Unlock()

	setLogLevel(cfg.Level())
	ov.invalidate()
}

func (ov *overlay) start() {
	if ov.monitor.Start(ov.ctx) {
		ov.markPlatformDirty()
	}
}

func (ov *overlay) toggle() {
	ov.monitor.Toggle(ov.ctx)
	ov.markPlatformDirty()
}

func (ov *overlay) markPlatformDirty() {
	ov.mu.Lock()
	ov.platformDirty = true
	ov.mu.Unlock()
	ov.invalidate()
}

func (ov *overlay) loop(ctx context.Context) error {
	var ops op.Ops
	for {
		switch e := ov.window.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				return e.Err
			}
			log.Debug().Msg("window closed normally")
			return nil

		case app.FrameEvent:
			// the frame timestamp is the tick of the display driver
			if ov.manual != nil {
				ov.manual.Fire(e.Now)
			}

			gtx := app.NewContext(&ops, e)
			if err := ov.shortcuts.Match(gtx); err != nil {
				log.Warn().Err(err).Msg("shortcuts match error")
			}
			ov.applyPlatform()
			ov.layout(gtx)

			if ov.manual != nil && ov.monitor.Running() {
				gtx.Execute(op.InvalidateCmd{})
			}
			e.Frame(gtx.Ops)

		default:
			if ov.platform.handleEvent(e) {
				ov.markPlatformDirty()
				continue
			}
			log.Trace().Msgf("event[%T]: %v", e, e)
		}
	}
}

// applyPlatform syncs always-on-top and click-through with the config
// and the monitoring state. Runs on the window goroutine.
func (ov *overlay) applyPlatform() {
	ov.mu.Lock()
	dirty := ov.platformDirty
	ov.platformDirty = false
	cfg := ov.cfg
	ov.mu.Unlock()
	if !dirty {
		return
	}

	if err := ov.platform.setTopmost(cfg.AlwaysOnTop); err != nil {
		log.Warn().Err(err).Msg("failed to set always on top")
	}
	// clicks are the start signal, so stay clickable until monitoring runs
	clickThrough := cfg.ClickThrough && ov.monitor.Running()
	if err := ov.platform.setClickThrough(clickThrough); err != nil {
		log.Warn().Err(err).Msg("failed to set click-through")
	}
}

// lines must not be called with ov.mu held: Render is reached with the
// sampler locked, and Running takes the monitor lock.
func (ov *overlay) lines() []string {
	running := ov.monitor.Running()

	ov.mu.Lock()
	defer ov.mu.Unlock()

	var first string
	switch {
	case running:
		first = ov.reading.String()
	case ov.reading.Samples == 0:
		first = startHint
	default:
		first = ov.reading.String() + " (paused)"
	}

	lines := []string{first}
	if ov.showInfo {
		lines = append(lines, ov.identity.Lines()...)
		if ov.hasUsage {
			lines = append(lines, ov.usage.String())
		}
	}
	return lines
}

func (ov *overlay) colors() (fg, bg color.NRGBA) {
	ov.mu.Lock()
	cfg := ov.cfg
	ov.mu.Unlock()

	// validated on load
	fg, _ = config.ParseColor(cfg.TextColor)
	bg, _ = config.ParseColor(cfg.BackgroundColor)
	return fg, bg
}

func (ov *overlay) layout(gtx layout.Context) layout.Dimensions {
	fg, bg := ov.colors()
	widgets.SetColors(widgets.Theme, fg, bg)
	ov.mu.Lock()
	size := unit.Sp(ov.cfg.FontSize)
	ov.mu.Unlock()

	return widgets.Readout{
		Lines:      ov.lines(),
		Size:       size,
		Color:      fg,
		Background: bg,
	}.Layout(gtx)
}

func (ov *overlay) newShortcuts() widgets.Shortcuts {
	ss := widgets.NewShortcuts(&ov.window,
		widgets.Shortcut{
			Key: widgets.NewShortcut(0, 0, key.NameSpace),
			F:   ov.shortcutToggleMonitoring,
		},
		widgets.Shortcut{
			Key: widgets.NewShortcut(0, 0, "H", "h"),
			F:   ov.shortcutToggleInfo,
		},
		widgets.Shortcut{
			Key: widgets.NewShortcut(0, 0, "I", "i"),
			F:   ov.shortcutPrintIdentity,
		},
		widgets.Shortcut{
			Key: widgets.NewShortcut(0, key.ModShift, "T", "t"),
			F:   ov.shortcutSetWda,
		},
		widgets.Shortcut{
			Key: widgets.NewShortcut(0, 0, key.NameEscape),
			F:   ov.shortcutQuit,
		},
	)
	ss.OnClick(ov.start)
	return ss
}
