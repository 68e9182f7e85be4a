package receiver

import (
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/signal"
)

// Dual runs an acoustic and an infrared receiver side by side. Each keeps its
// own symbol buffer; when the other channel becomes the active one, a
// partially filled buffer is flushed.
type Dual struct {
	Acoustic *Receiver
	Infrared *Receiver

	active assembler.Source
}

// NewDual pairs two receivers. Their configs should carry AcousticSource and
// InfraredSource respectively.
func NewDual(acoustic, infrared *Receiver) *Dual {
	return &Dual{Acoustic: acoustic, Infrared: infrared}
}

// Poll reads both sensors once and advances both pipelines.
func (d *Dual) Poll(now time.Duration) (acoustic, infrared Event) {
	acoustic = d.Acoustic.observe(now)
	infrared = d.Infrared.observe(now)
	d.active = d.resolve()
	d.Acoustic.settle(now, d.active, &acoustic)
	d.Infrared.settle(now, d.active, &infrared)
	return acoustic, infrared
}

// PollEdges is Poll for an infrared channel fed by an interrupt EdgeQueue
// instead of a polled pin. Queued edges are applied at their capture time.
func (d *Dual) PollEdges(now time.Duration, q *EdgeQueue) (acoustic, infrared Event) {
	acoustic = d.Acoustic.observe(now)
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		edge, accepted := d.Infrared.cond.Level(e.At, e.Level)
		infrared.merge(d.Infrared.apply(e.At, edge, accepted))
	}
	infrared.At = now
	infrared.Value = d.Infrared.cond.Value()
	infrared.State = d.Infrared.cond.State()

	d.active = d.resolve()
	d.Acoustic.settle(now, d.active, &acoustic)
	d.Infrared.settle(now, d.active, &infrared)
	return acoustic, infrared
}

// Run polls both sensors every acoustic SampleInterval forever.
func (d *Dual) Run(clock hal.Clock) {
	for {
		d.Poll(clock.Now())
		clock.Delay(d.Acoustic.cfg.SampleInterval)
	}
}

// Active returns the source currently carrying a signal, or NoSource.
func (d *Dual) Active() assembler.Source {
	return d.active
}

// resolve picks the active source. While both are active the previous choice sticks.
func (d *Dual) resolve() assembler.Source {
	a := d.Acoustic.State() == signal.Active
	i := d.Infrared.State() == signal.Active
	switch {
	case a && i:
		if d.active != assembler.NoSource {
			return d.active
		}
		return d.Acoustic.cfg.Source
	case a:
		return d.Acoustic.cfg.Source
	case i:
		return d.Infrared.cfg.Source
	}
	return assembler.NoSource
}
