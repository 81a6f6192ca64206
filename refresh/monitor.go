package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/Miuzarte/FpsOverlay/fps"
)

// Monitor owns the lifetime of a driver feeding a sampler. The driver is
// always stopped before the sampler is.
type Monitor struct {
	Sampler *fps.Sampler
	Driver  Driver

	// lifecycle serializes Start and Stop, held across the wait for the
	// driver so a new run never begins under a pending Stop.
	lifecycle sync.Mutex

	mu     sync.Mutex
	runID  int64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func NewMonitor(sampler *fps.Sampler, driver Driver) *Monitor {
	return &Monitor{Sampler: sampler, Driver: driver}
}

// Start is the start signal: it resets the sampler and launches the driver.
// It reports false if monitoring was already running.
func (m *Monitor) Start(ctx context.Context) bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return false
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.runID++
	runID := m.runID
	m.cancel = cancel
	m.done = make(chan struct{})
	m.err = nil
	done := m.done

	m.Sampler.Begin()
	log.Info().Stringer("driver", driverName{m.Driver}).Msg("monitoring started")

	go func() {
		defer close(done)
		err := m.Driver.Run(runCtx, func(now time.Time) {
			m.Sampler.Tick(now)
		})
		if err != nil {
			log.Error().Err(err).Msg("refresh driver failed")
			m.stopFromWorker(runID, err)
		}
	}()

	return true
}

// Stop cancels the driver, waits for it to return, then stops the sampler.
func (m *Monitor) Stop() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.runID++
	m.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done
	m.Sampler.Stop()

	r := m.Sampler.Reading()
	log.Info().
		Int("samples", r.Samples).
		Uint64("dropped", r.Dropped).
		Msg("monitoring stopped")
	return true
}

func (m *Monitor) Toggle(ctx context.Context) bool {
	if m.Running() {
		m.Stop()
		return false
	}
	return m.Start(ctx)
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Err returns the error that ended the last run early, if any.
func (m *Monitor) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Monitor) stopFromWorker(runID int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runID != runID {
		return
	}
	m.cancel()
	m.cancel = nil
	m.err = err
	m.Sampler.Stop()
}

type driverName struct{ Driver }

func (d driverName) String() string {
	if s, ok := d.Driver.(interface{ String() string }); ok {
		return s.String()
	}
	return "custom"
}
