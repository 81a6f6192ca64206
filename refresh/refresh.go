// Package refresh drives a sampler once per display refresh, or at a fixed
// nominal rate when no refresh signal is available.
package refresh

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "Refresh").Logger()

const DefaultRate = 60

// Driver calls tick once per refresh until ctx is done. tick is never
// called concurrently with itself and never after Run returns.
type Driver interface {
	Run(ctx context.Context, tick func(now time.Time)) error
}

// Fixed ticks at a nominal rate with a time.Ticker.
type Fixed struct {
	Rate int
}

func (f Fixed) Run(ctx context.Context, tick func(time.Time)) error {
	rate := f.Rate
	if rate <= 0 {
		rate = DefaultRate
	}
	if rate > 1000 {
		return fmt.Errorf("nominal rate %d above 1000Hz", rate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now, ok := <-ticker.C:
			if !ok {
				return nil
			}
			tick(now)
		}
	}
}

func (f Fixed) String() string {
	return fmt.Sprintf("fixed(%dHz)", f.Rate)
}

// Manual forwards ticks fired by an external loop, such as a window's
// vsync-paced frame events, to the callback of the current Run.
type Manual struct {
	mu   sync.Mutex
	tick func(time.Time)
}

func (m *Manual) Run(ctx context.Context, tick func(time.Time)) error {
	m.mu.Lock()
	if m.tick != nil {
		m.mu.Unlock()
		return fmt.Errorf("manual driver already running")
	}
	m.tick = tick
	m.mu.Unlock()

	<-ctx.Done()

	// waits for an in-flight Fire
	m.mu.Lock()
	m.tick = nil
	m.mu.Unlock()
	return nil
}

// Fire delivers one tick. It reports false when no Run is active.
func (m *Manual) Fire(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tick == nil {
		return false
	}
	m.tick(now)
	return true
}

func (m *Manual) String() string { return "display" }
