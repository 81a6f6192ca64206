// Package capture provides a refresh driver that ticks once per frame
// composed by the desktop, using DXGI output duplication on Windows.
package capture

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "Capture").Logger()

var ErrUnsupported = errors.New("desktop capture is only supported on windows")

const defaultTimeout = 100 * time.Millisecond

// Desktop ticks whenever the selected display presents a new frame.
// A static desktop produces no ticks.
type Desktop struct {
	Display int
	// Timeout bounds each wait for a new frame, so cancellation is
	// noticed even when nothing is drawn.
	Timeout time.Duration
}

func (d Desktop) timeout() time.Duration {
	if d.Timeout <= 0 {
		return defaultTimeout
	}
	return d.Timeout
}

func (d Desktop) String() string {
	return fmt.Sprintf("desktop(%d)", d.Display)
}
