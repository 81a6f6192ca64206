package fps

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// Reading is what a Sampler hands to its Sink after every accepted tick.
type Reading struct {
	FPS       int
	Low1      int
	Low1Ready bool
	FrameTime time.Duration
	Samples   int
	Dropped   uint64
}

func (r Reading) String() string {
	low := "--"
	if r.Low1Ready {
		low = strconv.Itoa(r.Low1)
	}
	return "FPS: " + strconv.Itoa(r.FPS) + " | 1% Low: " + low
}

// Sink receives readings. It is called with the sampler locked, so it must
// not call back into the Sampler.
type Sink interface {
	Render(Reading)
}

type SinkFunc func(Reading)

func (f SinkFunc) Render(r Reading) { f(r) }

type Clock func() time.Time

type state struct {
	started bool
	last    time.Time
	dropped uint64
	reading Reading
}

// Sampler turns refresh callbacks into inter-frame durations and statistics.
// At most one tick is processed at a time.
type Sampler struct {
	mu sync.Mutex
	*state
	window *Window
	sink   Sink
	clock  Clock
}

func NewSampler(sink Sink) *Sampler {
	return &Sampler{
		state:  &state{},
		window: NewWindow(WindowCapacity),
		sink:   sink,
		clock:  time.Now,
	}
}

// WithClock replaces the clock used by Begin and TickNow.
func (s *Sampler) WithClock(c Clock) *Sampler {
	s.clock = c
	return s
}

// Start clears the window and takes now as the previous timestamp.
func (s *Sampler) Start(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window.reset()
	*s.state = state{started: true, last: now}
}

// Begin starts the sampler on its own clock.
func (s *Sampler) Begin() {
	s.Start(s.clock())
}

// Stop makes every later tick a no-op until the next Start.
func (s *Sampler) Stop() {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
}

func (s *Sampler) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Tick records the interval since the previous tick and renders the result.
// Ticks before Start, after Stop, or with a non-positive interval are not
// recorded and report false.
func (s *Sampler) Tick(now time.Time) (Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return s.reading, false
	}

	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed <= 0 {
		s.dropped++
		s.reading.Dropped = s.dropped
		return s.reading, false
	}

	delta := elapsed.Seconds()
	s.window.Append(delta)

	r := Reading{
		FPS:       InstantaneousFPS(delta),
		FrameTime: elapsed,
		Samples:   s.window.Len(),
		Dropped:   s.dropped,
	}
	if low, ok := PercentileLowFPS(s.window.Snapshot(), LowPercentile); ok {
		r.Low1 = int(math.Round(low))
		r.Low1Ready = true
	}
	s.reading = r

	if s.sink != nil {
		s.sink.Render(r)
	}
	return r, true
}

// TickNow ticks with the sampler's clock.
func (s *Sampler) TickNow() (Reading, bool) {
	return s.Tick(s.clock())
}

// Reading returns the most recent reading.
func (s *Sampler) Reading() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

// Samples returns a copy of the window, oldest first.
func (s *Sampler) Samples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Snapshot()
}
