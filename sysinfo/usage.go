package sysinfo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Usage is the overlay process's own footprint.
type Usage struct {
	CPUPercent float64
	RSS        uint64
	RSSPercent float64
}

func (u Usage) String() string {
	return fmt.Sprintf("MEM: %s (%.2f%%) | CPU %.1f%%", HumanBytes(u.RSS), u.RSSPercent, u.CPUPercent)
}

// Watcher refreshes Usage once per Interval.
type Watcher struct {
	Interval time.Duration

	proc  *process.Process
	total uint64

	mu    sync.RWMutex
	usage Usage
	valid bool
}

// NewWatcher watches the current process. total is the machine's physical
// memory, used for RSSPercent; 0 leaves it unset.
func NewWatcher(ctx context.Context, total uint64) (*Watcher, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open own process: %w", err)
	}
	return &Watcher{Interval: time.Second, proc: p, total: total}, nil
}

// Run blocks until ctx is done. onUpdate, if not nil, is called after every
// refresh.
func (w *Watcher) Run(ctx context.Context, onUpdate func(Usage)) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// blocks for interval
		cpuPercent, err := w.proc.PercentWithContext(ctx, interval)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Debug().Err(err).Msg("failed to measure cpu percent")
			time.Sleep(interval)
			continue
		}

		u := Usage{CPUPercent: cpuPercent}
		if mi, err := w.proc.MemoryInfoWithContext(ctx); err == nil {
			u.RSS = mi.RSS
			if w.total > 0 {
				u.RSSPercent = float64(mi.RSS) / float64(w.total) * 100
			}
		} else {
			log.Debug().Err(err).Msg("failed to read memory info")
		}

		w.mu.Lock()
		w.usage = u
		w.valid = true
		w.mu.Unlock()

		if onUpdate != nil {
			onUpdate(u)
		}
	}
}

// Usage returns the latest measurement, and false before the first one.
func (w *Watcher) Usage() (Usage, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.usage, w.valid
}
