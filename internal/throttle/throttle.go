package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultWindow is the quiescence window between two emissions of the same
// drag.
const DefaultWindow = 250 * time.Millisecond

// Throttle is a leading-edge rate limiter: the first call in a window is
// allowed and every other call inside that window is suppressed. Callers
// pass the current time, so nothing here reads the wall clock.
type Throttle struct {
	window  time.Duration
	limiter *rate.Limiter
}

// New creates a throttle. A non-positive window falls back to DefaultWindow.
func New(window time.Duration) *Throttle {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Throttle{window: window, limiter: newLimiter(window)}
}

// One token per window and a burst of one: a full bucket lets exactly one
// emission through, then refills over the window.
func newLimiter(window time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(window), 1)
}

// TryEmit reports whether an emission at now is allowed, and records it if so.
func (t *Throttle) TryEmit(now time.Time) bool {
	return t.limiter.AllowN(now, 1)
}

// Flush marks an unconditional final emission and resets the window so the
// next burst starts with an allowed emission.
func (t *Throttle) Flush() {
	t.Reset()
}

// Reset forgets any previous emission.
func (t *Throttle) Reset() {
	t.limiter = newLimiter(t.window)
}
