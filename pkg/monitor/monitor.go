// Package monitor keeps a sliding window of the decoded signal for display.
package monitor

import (
	"sync"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/pulse"
)

// MaxText bounds the decoded text kept per stream.
const MaxText = 256

var _ SignalMonitor = (*Monitor)(nil)

// Snapshot is a consistent copy of the monitor state.
type Snapshot struct {
	Points    []Point       // Samples within the window, oldest first
	Pulses    []pulse.Pulse // Completed pulses ending within the window
	Decoded   string        // Characters decoded on the host from the samples
	Text      string        // Characters reported by the node
	Threshold float32
}

// SignalMonitor processes decoded points and node text and notifies listeners.
type SignalMonitor interface {
	ProcessPoints(input <-chan Point)
	ProcessText(input <-chan link.Character)
	Snapshot() Snapshot
	OnUpdate(func(Snapshot)) // Register callback for updates
}

// Monitor implements SignalMonitor.
// Points are removed by timestamp (time window), not by count.
type Monitor struct {
	points  []Point
	pulses  []pulse.Pulse
	decoded []byte
	text    []byte

	mu sync.RWMutex

	callbacks []func(Snapshot)
	cbMu      sync.RWMutex

	window    time.Duration
	threshold float32

	// Set when the point stream closes, prevents further callbacks
	shutdown bool
}

// New creates a new Monitor instance.
func New(cfg *config.Config) *Monitor {
	return &Monitor{
		window:    cfg.Display.Window(),
		threshold: float32(cfg.Receiver.Threshold),
	}
}

// ProcessPoints consumes points until the channel closes, then stops notifying.
func (m *Monitor) ProcessPoints(input <-chan Point) {
	for p := range input {
		m.processPoint(p)
	}
	m.mu.Lock()
	m.shutdown = true
	m.mu.Unlock()
}

// ProcessText consumes node characters until the channel closes.
func (m *Monitor) ProcessText(input <-chan link.Character) {
	for c := range input {
		m.mu.Lock()
		m.text = appendText(m.text, c.Char)
		notify := !m.shutdown
		m.mu.Unlock()

		if notify {
			m.notifyCallbacks()
		}
	}
}

func (m *Monitor) processPoint(p Point) {
	m.mu.Lock()

	m.points = append(m.points, p)
	if p.Symbol {
		m.pulses = append(m.pulses, p.Pulse)
	}
	if p.Emitted {
		m.decoded = appendText(m.decoded, p.Char)
	}

	cutoff := p.At - m.window
	i := 0
	for i < len(m.points) && m.points[i].At <= cutoff {
		i++
	}
	if i > 0 {
		m.points = append(m.points[:0], m.points[i:]...)
	}
	j := 0
	for j < len(m.pulses) && m.pulses[j].End <= cutoff {
		j++
	}
	if j > 0 {
		m.pulses = append(m.pulses[:0], m.pulses[j:]...)
	}

	notify := !m.shutdown
	m.mu.Unlock()

	if notify {
		m.notifyCallbacks()
	}
}

func appendText(buf []byte, ch byte) []byte {
	buf = append(buf, ch)
	if len(buf) > MaxText {
		buf = append(buf[:0], buf[len(buf)-MaxText:]...)
	}
	return buf
}

// Snapshot returns a copy of the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points := make([]Point, len(m.points))
	copy(points, m.points)
	pulses := make([]pulse.Pulse, len(m.pulses))
	copy(pulses, m.pulses)

	return Snapshot{
		Points:    points,
		Pulses:    pulses,
		Decoded:   string(m.decoded),
		Text:      string(m.text),
		Threshold: m.threshold,
	}
}

// OnUpdate registers a callback invoked after every processed point or character.
// The callback should copy data quickly and return as fast as possible.
func (m *Monitor) OnUpdate(callback func(Snapshot)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// ResetShutdown allows callbacks again before starting a new chain.
func (m *Monitor) ResetShutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown = false
}

// Clear drops all buffered points, pulses and text.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = m.points[:0]
	m.pulses = m.pulses[:0]
	m.decoded = m.decoded[:0]
	m.text = m.text[:0]
}

// notifyCallbacks invokes all registered callbacks without holding any locks.
func (m *Monitor) notifyCallbacks() {
	snap := m.Snapshot()

	m.cbMu.RLock()
	callbacks := make([]func(Snapshot), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(snap)
		}
	}
}
