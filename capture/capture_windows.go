//go:build windows

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/kirides/go-d3d/d3d11"
	"github.com/kirides/go-d3d/outputduplication"
	"github.com/kirides/go-d3d/win"
)

func (d Desktop) Run(ctx context.Context, tick func(time.Time)) error {
	// D3D11 contexts are bound to the creating thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c, err := New(d.Display)
	if err != nil {
		return err
	}
	defer c.Close()

	img := image.NewRGBA(c.Bounds())
	timeoutMs := uint(d.timeout().Milliseconds())
	log.Debug().Int("display", d.Display).Stringer("bounds", c.Bounds()).Msg("desktop driver ready")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Int("frames", c.FramesElapsed).Msg("desktop driver stopped")
			return nil
		default:
		}

		err := c.GetImage(img, timeoutMs)
		switch {
		case err == nil:
			tick(time.Now())
		case errors.Is(err, outputduplication.ErrNoImageYet):
			continue
		default:
			return err
		}
	}
}

// Capturer duplicates one display output.
type Capturer struct {
	FramesElapsed int

	displayIndex int
	device       *d3d11.ID3D11Device
	deviceCtx    *d3d11.ID3D11DeviceContext
	ddup         *outputduplication.OutputDuplicator
	screenBounds image.Rectangle
	mu           sync.Mutex
}

func New(displayIndex int) (ss *Capturer, err error) {
	numDisplays := screenshot.NumActiveDisplays()
	if numDisplays <= 0 {
		return nil, fmt.Errorf("no active display")
	}
	if displayIndex < 0 || displayIndex >= numDisplays {
		return nil, fmt.Errorf("display index [%d] out of bounds: %d", displayIndex, numDisplays)
	}

	ss = new(Capturer{displayIndex: displayIndex})
	return ss, ss.init()
}

func (ss *Capturer) init() (err error) {
	ss.Close()

	// Make thread PerMonitorV2 Dpi aware if supported on OS
	if win.IsValidDpiAwarenessContext(win.DpiAwarenessContextPerMonitorAwareV2) {
		_, err := win.SetThreadDpiAwarenessContext(win.DpiAwarenessContextPerMonitorAwareV2)
		if err != nil {
			log.Warn().Err(err).Msg("could not set thread DPI awareness to PerMonitorAwareV2")
		}
	}

	ss.device, ss.deviceCtx, err = d3d11.NewD3D11Device()
	if err != nil {
		return fmt.Errorf("could not create D3D11 Device: %w", err)
	}

	ss.ddup, err = outputduplication.NewIDXGIOutputDuplication(ss.device, ss.deviceCtx, uint(ss.displayIndex))
	if err != nil {
		return fmt.Errorf("err NewIDXGIOutputDuplication: %w", err)
	}

	ss.screenBounds, err = ss.ddup.GetBounds()
	if err != nil {
		return fmt.Errorf("unable to obtain output bounds: %w", err)
	}

	return nil
}

func (ss *Capturer) Close() (err error) {
	var ret1, ret2 int32
	if ss.ddup != nil {
		ss.ddup.Release()
		ss.ddup = nil
	}
	if ss.deviceCtx != nil {
		ret1 = ss.deviceCtx.Release()
		ss.deviceCtx = nil
	}
	if ss.device != nil {
		ret2 = ss.device.Release()
		ss.device = nil
	}
	if ret1 != 0 {
		return fmt.Errorf("ret1 (%d) != 0", ret1)
	}
	if ret2 != 0 {
		return fmt.Errorf("ret2 (%d) != 0", ret2)
	}
	return nil
}

func (ss *Capturer) Bounds() image.Rectangle {
	return ss.screenBounds
}

// GetImage waits up to timeoutMs for the next composed frame.
// Must be called from the thread that created the Capturer.
func (ss *Capturer) GetImage(img *image.RGBA, timeoutMs uint) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	err := ss.ddup.GetImage(img, timeoutMs)
	if err == nil {
		ss.FramesElapsed++
		return nil
	}
	if errors.Is(err, outputduplication.ErrNoImageYet) {
		return err
	}

	// access lost on desktop switch, mode change or fullscreen exclusive:
	// the duplication has to be recreated
	log.Debug().Err(err).Msg("renewing output duplication")
	if err := ss.init(); err != nil {
		return err
	}
	err = ss.ddup.GetImage(img, timeoutMs)
	if err == nil {
		ss.FramesElapsed++
	}
	return err
}
