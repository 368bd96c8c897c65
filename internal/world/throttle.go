package world

import "time"

// Throttle fires at a fixed frequency based on accumulated elapsed time.
type Throttle struct {
	interval time.Duration
	since    time.Duration
}

// NewThrottle fires perSecond times per second. A non-positive rate fires on every call.
func NewThrottle(perSecond float64) *Throttle {
	t := &Throttle{}
	if perSecond > 0 {
		t.interval = time.Duration(float64(time.Second) / perSecond)
	}
	return t
}

// Ready adds elapsed and reports whether an interval has passed since the
// last time it returned true. Leftover time is dropped, not carried over.
func (t *Throttle) Ready(elapsed time.Duration) bool {
	t.since += elapsed
	if t.since >= t.interval {
		t.since = 0
		return true
	}
	return false
}
