package main

import (
	"errors"
	"unsafe"

	"gioui.org/app"
	"gioui.org/io/event"
	"golang.org/x/sys/windows"
)

const (
	WDA_NONE               = 0x00000000
	WDA_MONITOR            = 0x00000001
	WDA_EXCLUDEFROMCAPTURE = 0x00000011
)

const (
	GWL_EXSTYLE       = ^uintptr(19) // -20
	WS_EX_TRANSPARENT = 0x00000020
	WS_EX_LAYERED     = 0x00080000

	HWND_TOPMOST   = ^uintptr(0) // -1
	HWND_NOTOPMOST = ^uintptr(1) // -2

	SWP_NOSIZE     = 0x0001
	SWP_NOMOVE     = 0x0002
	SWP_NOACTIVATE = 0x0010

	LWA_ALPHA = 0x00000002
)

var (
	moduser32                      = windows.NewLazySystemDLL("user32.dll")
	procSetWindowDisplayAffinity   = moduser32.NewProc("SetWindowDisplayAffinity")
	procGetWindowDisplayAffinity   = moduser32.NewProc("GetWindowDisplayAffinity")
	procSetWindowPos               = moduser32.NewProc("SetWindowPos")
	procGetWindowLongPtrW          = moduser32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = moduser32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = moduser32.NewProc("SetLayeredWindowAttributes")
)

var errNoWindow = errors.New("window handle not known yet")

type platformWindow struct {
	hwnd windows.HWND
}

func (p *platformWindow) handleEvent(e event.Event) bool {
	v, ok := e.(app.Win32ViewEvent)
	if !ok {
		return false
	}
	p.hwnd = windows.HWND(v.HWND)
	return v.HWND != 0
}

func (p *platformWindow) setTopmost(on bool) error {
	if p.hwnd == 0 {
		return nil
	}
	after := HWND_NOTOPMOST
	if on {
		after = HWND_TOPMOST
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(p.hwnd), after,
		0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_NOACTIVATE,
	)
	if ret == 0 {
		return err
	}
	return nil
}

func (p *platformWindow) setClickThrough(on bool) error {
	if p.hwnd == 0 {
		return nil
	}
	style, _, _ := procGetWindowLongPtrW.Call(uintptr(p.hwnd), GWL_EXSTYLE)
	if on {
		style |= WS_EX_LAYERED | WS_EX_TRANSPARENT
	} else {
		style &^= WS_EX_TRANSPARENT
	}
	procSetWindowLongPtrW.Call(uintptr(p.hwnd), GWL_EXSTYLE, style)

	if style&WS_EX_LAYERED != 0 {
		// a layered window without attributes is not drawn at all
		ret, _, err := procSetLayeredWindowAttributes.Call(uintptr(p.hwnd), 0, 255, LWA_ALPHA)
		if ret == 0 {
			return err
		}
	}
	return nil
}

func (p *platformWindow) toggleCaptureExclusion(monitorOnly bool) error {
	if p.hwnd == 0 {
		return errNoWindow
	}

	currWda, err := GetWindowDisplayAffinity(p.hwnd)
	if err != nil {
		return err
	}

	switch currWda {
	case WDA_NONE:
		var toWda uint32 = WDA_EXCLUDEFROMCAPTURE
		if monitorOnly {
			toWda = WDA_MONITOR
		}
		log.Info().Uint32("wda", toWda).Msg("display affinity set")
		return SetWindowDisplayAffinity(p.hwnd, toWda)
	default:
		log.Info().Msg("display affinity set to WDA_NONE")
		return SetWindowDisplayAffinity(p.hwnd, WDA_NONE)
	}
}

func SetWindowDisplayAffinity(hWnd windows.HWND, dwAffinity uint32) error {
	ret, _, err := procSetWindowDisplayAffinity.Call(
		uintptr(hWnd),
		uintptr(dwAffinity),
	)

	if ret == 0 {
		return err
	}

	return nil
}

func GetWindowDisplayAffinity(hWnd windows.HWND) (dwAffinity uint32, _ error) {
	ret, _, err := procGetWindowDisplayAffinity.Call(
		uintptr(hWnd),
		uintptr(unsafe.Pointer(&dwAffinity)),
	)

	if ret == 0 {
		return 0, err
	}

	return dwAffinity, nil
}

func raisePriority() {
	err := windows.SetPriorityClass(windows.CurrentProcess(), windows.ABOVE_NORMAL_PRIORITY_CLASS)
	if err != nil {
		log.Warn().Err(err).Msg("failed to set process priority")
	}
}
