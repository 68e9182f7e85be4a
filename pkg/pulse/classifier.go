// Package pulse measures active intervals and classifies them as dots or dashes.
package pulse

import (
	"time"

	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/signal"
)

// DefaultDashThreshold separates dots from dashes.
const DefaultDashThreshold = 100 * time.Millisecond

// Pulse is a completed active interval.
type Pulse struct {
	Start  time.Duration
	End    time.Duration
	Symbol morse.Symbol
}

// Duration returns End - Start.
func (p Pulse) Duration() time.Duration {
	return p.End - p.Start
}

// Classify maps a duration to a symbol over the half-open ranges
// [0, threshold) -> Dot and [threshold, inf) -> Dash.
// There is no noise floor: arbitrarily short pulses are dots.
func Classify(d, threshold time.Duration) morse.Symbol {
	if d < threshold {
		return morse.Dot
	}
	return morse.Dash
}

// Classifier tracks the pending rising edge and turns each completed active
// interval into exactly one symbol.
type Classifier struct {
	threshold time.Duration
	start     time.Duration
	pending   bool
}

// New creates a Classifier with the given dash threshold.
func New(dashThreshold time.Duration) *Classifier {
	return &Classifier{threshold: dashThreshold}
}

// Rise records the start of an active interval.
func (c *Classifier) Rise(now time.Duration) {
	c.start = now
	c.pending = true
}

// Fall closes the pending interval. It returns false if no interval was open.
func (c *Classifier) Fall(now time.Duration) (Pulse, bool) {
	if !c.pending {
		return Pulse{}, false
	}
	c.pending = false
	return Pulse{
		Start:  c.start,
		End:    now,
		Symbol: Classify(now-c.start, c.threshold),
	}, true
}

// Edge dispatches an accepted edge to Rise or Fall.
func (c *Classifier) Edge(e signal.Edge) (Pulse, bool) {
	if e.Rising() {
		c.Rise(e.At)
		return Pulse{}, false
	}
	return c.Fall(e.At)
}

// Pending reports whether an active interval is in progress.
func (c *Classifier) Pending() bool {
	return c.pending
}

// Threshold returns the dash threshold.
func (c *Classifier) Threshold() time.Duration {
	return c.threshold
}
