package fps

import (
	"cmp"
	"math"
	"slices"
)

const (
	// LowPercentile selects the worst 1% of frames.
	LowPercentile = 0.01
	// MinLowSamples is the smallest window that yields a 1% low.
	MinLowSamples = 21
	// Unavailable is reported in place of a 1% low that cannot be computed yet.
	Unavailable = 0
)

// InstantaneousFPS is the inverse of a single inter-frame duration, rounded.
// Non-positive durations give 0.
func InstantaneousFPS(delta float64) int {
	if delta <= 0 {
		return 0
	}
	return int(math.Round(1.0 / delta))
}

// PercentileLowFPS returns the p-low frame rate of samples, or
// (Unavailable, false) while there are fewer than MinLowSamples samples.
// samples is not modified.
func PercentileLowFPS(samples []float64, p float64) (float64, bool) {
	if len(samples) < MinLowSamples {
		return Unavailable, false
	}
	return LowFPS(samples, p), true
}

// LowFPS averages the longest max(1, floor(len*p)) durations and inverts
// the mean. The mean is taken over durations, never over rates.
func LowFPS(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return Unavailable
	}

	sorted := slices.Clone(samples)
	slices.SortFunc(sorted, func(a, b float64) int {
		return cmp.Compare(b, a)
	})

	count := max(1, int(math.Floor(float64(len(sorted))*p)))
	count = min(count, len(sorted))

	var sum float64
	for _, d := range sorted[:count] {
		sum += d
	}
	avg := sum / float64(count)
	if avg <= 0 {
		return Unavailable
	}
	return 1.0 / avg
}
