//go:build !windows

package main

import (
	"errors"

	"gioui.org/io/event"
)

var errUnsupported = errors.New("not supported on this platform")

// Window styles are only adjusted on windows; elsewhere the window manager
// decides stacking and input.
type platformWindow struct{}

func (*platformWindow) handleEvent(event.Event) bool { return false }

func (*platformWindow) setTopmost(bool) error { return nil }

func (*platformWindow) setClickThrough(bool) error { return nil }

func (*platformWindow) toggleCaptureExclusion(bool) error { return errUnsupported }

func raisePriority() {}
