package fps

// WindowCapacity is the number of inter-frame durations kept for statistics.
const WindowCapacity = 300

// Window is a bounded FIFO of inter-frame durations in seconds.
// Storage is a ring, but readers only ever see samples in append order.
type Window struct {
	data  []float64
	head  int // index of the oldest sample
	count int
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = WindowCapacity
	}
	return &Window{data: make([]float64, capacity)}
}

func (w *Window) Len() int { return w.count }

func (w *Window) Cap() int { return len(w.data) }

// Append adds x as the newest sample, evicting the oldest one when full.
func (w *Window) Append(x float64) {
	if w.count < len(w.data) {
		w.data[(w.head+w.count)%len(w.data)] = x
		w.count++
		return
	}
	w.data[w.head] = x
	w.head = (w.head + 1) % len(w.data)
}

// Last returns the newest sample.
func (w *Window) Last() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	return w.data[(w.head+w.count-1)%len(w.data)], true
}

// Snapshot returns an independent copy, oldest first.
func (w *Window) Snapshot() []float64 {
	if w.count == 0 {
		return nil
	}
	out := make([]float64, w.count)
	n := copy(out, w.data[w.head:min(w.head+w.count, len(w.data))])
	copy(out[n:], w.data[:w.count-n])
	return out
}

func (w *Window) reset() {
	w.head = 0
	w.count = 0
}
