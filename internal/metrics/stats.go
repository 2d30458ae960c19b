package metrics

import "time"

// Window accumulates forward-pass timings.
type Window struct {
	passes  int
	elapsed time.Duration
}

// Record adds a batch of passes that took elapsed in total.
func (w *Window) Record(passes int, elapsed time.Duration) {
	w.passes += passes
	w.elapsed += elapsed
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Passes: w.passes}
	if w.elapsed > 0 {
		snap.PassesPerSec = float64(w.passes) / w.elapsed.Seconds()
	}
	if w.passes > 0 {
		snap.AvgForwardMS = (w.elapsed.Seconds() * 1000) / float64(w.passes)
	}

	w.passes = 0
	w.elapsed = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Passes       int
	PassesPerSec float64
	AvgForwardMS float64
}
