// Package signal turns a noisy sample stream into debounced active/inactive edges.
package signal

import "time"

// Defaults used by the acoustic receiver.
const (
	DefaultFilterSize = 10
	DefaultThreshold  = 1000
	DefaultDebounce   = 50 * time.Millisecond
	DefaultPeakGuard  = 500 * time.Millisecond
)

// State is the conditioned line state.
type State uint8

const (
	Inactive State = iota
	Active
)

// String returns "active" or "inactive".
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Edge is an accepted state transition.
type Edge struct {
	At    time.Duration
	State State // state entered at At
}

// Rising reports whether the edge enters the active state.
func (e Edge) Rising() bool {
	return e.State == Active
}

// Config holds the conditioning parameters. A zero Debounce or PeakGuard
// disables that check.
type Config struct {
	FilterSize int
	Threshold  float32
	Debounce   time.Duration
	PeakGuard  time.Duration
}

// DefaultConfig returns the acoustic receiver parameters.
func DefaultConfig() Config {
	return Config{
		FilterSize: DefaultFilterSize,
		Threshold:  DefaultThreshold,
		Debounce:   DefaultDebounce,
		PeakGuard:  DefaultPeakGuard,
	}
}

// Stats counts polls whose raw transition was rejected.
type Stats struct {
	Accepted uint32 // accepted transitions
	Bounced  uint32 // polls rejected by the debounce window
	Guarded  uint32 // polls rejected by the peak guard
}

// Conditioner smooths samples, thresholds them and gates the resulting
// transitions through a debounce window and a rising-edge peak guard.
//
// A raw transition inside either window is dropped for that poll, not queued:
// the next poll evaluates its own raw state from scratch.
type Conditioner struct {
	cfg    Config
	window *Window

	value float32
	state State

	lastTransition time.Duration
	lastRise       time.Duration
	transitioned   bool
	risen          bool

	stats Stats
}

// New creates a Conditioner in the inactive state.
func New(cfg Config) *Conditioner {
	return &Conditioner{
		cfg:    cfg,
		window: NewWindow(cfg.FilterSize),
	}
}

// Filter pushes a sample into the moving-average window and returns the smoothed value.
func (c *Conditioner) Filter(sample float32) float32 {
	c.value = c.window.Push(sample)
	return c.value
}

// Classify maps a smoothed value to a raw state: active iff v > Threshold.
func (c *Conditioner) Classify(v float32) State {
	if v > c.cfg.Threshold {
		return Active
	}
	return Inactive
}

// Accept gates a raw state observed at now. It returns the accepted edge, if any.
func (c *Conditioner) Accept(now time.Duration, raw State) (Edge, bool) {
	if raw == c.state {
		return Edge{}, false
	}
	if c.transitioned && now-c.lastTransition < c.cfg.Debounce {
		c.stats.Bounced++
		return Edge{}, false
	}
	if raw == Active && c.risen && now-c.lastRise < c.cfg.PeakGuard {
		c.stats.Guarded++
		return Edge{}, false
	}

	c.state = raw
	c.lastTransition = now
	c.transitioned = true
	if raw == Active {
		c.lastRise = now
		c.risen = true
	}
	c.stats.Accepted++
	return Edge{At: now, State: raw}, true
}

// Sample runs an analog sample through filter, threshold and gate.
func (c *Conditioner) Sample(now time.Duration, sample float32) (Edge, bool) {
	return c.Accept(now, c.Classify(c.Filter(sample)))
}

// Level feeds an already-digital level, bypassing the moving average.
func (c *Conditioner) Level(now time.Duration, active bool) (Edge, bool) {
	raw := Inactive
	c.value = 0
	if active {
		raw = Active
		c.value = 1
	}
	return c.Accept(now, raw)
}

// State returns the accepted line state.
func (c *Conditioner) State() State {
	return c.state
}

// Value returns the last smoothed value (0 or 1 for digital levels).
func (c *Conditioner) Value() float32 {
	return c.value
}

// Threshold returns the configured decision threshold.
func (c *Conditioner) Threshold() float32 {
	return c.cfg.Threshold
}

// Window exposes the filter window for inspection.
func (c *Conditioner) Window() *Window {
	return c.window
}

// Stats returns the rejection counters.
func (c *Conditioner) Stats() Stats {
	return c.stats
}
