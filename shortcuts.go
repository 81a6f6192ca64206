package main

import (
	"gioui.org/io/key"
	"gioui.org/io/system"
)

func (ov *overlay) shortcutToggleMonitoring(key.Name, key.Modifiers) {
	ov.toggle()
}

func (ov *overlay) shortcutToggleInfo(key.Name, key.Modifiers) {
	ov.mu.Lock()
	ov.showInfo = !ov.showInfo
	ov.mu.Unlock()
}

func (ov *overlay) shortcutPrintIdentity(key.Name, key.Modifiers) {
	for _, line := range ov.identity.Details() {
		log.Info().Msg(line)
	}
	r := ov.monitor.Sampler.Reading()
	log.Info().
		Int("fps", r.FPS).
		Int("low1", r.Low1).
		Bool("low1Ready", r.Low1Ready).
		Int("samples", r.Samples).
		Uint64("dropped", r.Dropped).
		Msg("current reading")
}

// shortcutSetWda hides the overlay from screen capture, or with shift
// shows it as a black box in captures.
func (ov *overlay) shortcutSetWda(_ key.Name, mod key.Modifiers) {
	if err := ov.platform.toggleCaptureExclusion(mod.Contain(key.ModShift)); err != nil {
		log.Error().Err(err).Msg("failed to set display affinity")
	}
}

func (ov *overlay) shortcutQuit(key.Name, key.Modifiers) {
	ov.window.Perform(system.ActionClose)
}
