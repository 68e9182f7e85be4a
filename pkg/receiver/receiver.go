// Package receiver drives the decoding pipeline from a physical input:
// conditioner, pulse classifier and symbol assembler, advanced once per poll.
package receiver

import (
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/pulse"
	"github.com/itohio/gomorse/pkg/signal"
)

// DefaultSampleInterval is the polling period of Run.
const DefaultSampleInterval = time.Millisecond

// Input selects how the sensor is read.
type Input uint8

const (
	Analog  Input = iota // 12-bit amplitude, filtered and thresholded
	Digital              // logic level, used as is
)

// String returns "analog" or "digital".
func (i Input) String() string {
	if i == Digital {
		return "digital"
	}
	return "analog"
}

// Channel sources used by the dual receiver.
const (
	AcousticSource assembler.Source = 1
	InfraredSource assembler.Source = 2
)

// Config parameterizes a receiver deployment.
type Config struct {
	Input          Input
	Signal         signal.Config
	DashThreshold  time.Duration
	CharGap        time.Duration
	Capacity       int
	Source         assembler.Source
	SampleInterval time.Duration
}

// DefaultConfig returns the acoustic (sound sensor) configuration.
func DefaultConfig() Config {
	return Config{
		Input:          Analog,
		Signal:         signal.DefaultConfig(),
		DashThreshold:  pulse.DefaultDashThreshold,
		CharGap:        assembler.DefaultCharGap,
		Capacity:       assembler.MaxLength,
		SampleInterval: DefaultSampleInterval,
	}
}

// DigitalConfig returns the infrared (logic level) configuration. The level is
// not filtered and there is no acoustic ringing to guard against.
func DigitalConfig() Config {
	cfg := DefaultConfig()
	cfg.Input = Digital
	cfg.Signal = signal.Config{
		FilterSize: 1,
		Threshold:  0.5,
		Debounce:   10 * time.Millisecond,
	}
	return cfg
}

// Sensor is the physical input. Only the field matching Config.Input is read.
type Sensor struct {
	Analog  hal.AnalogSampleSource
	Digital hal.DigitalInput
}

// Event describes what a single poll produced.
type Event struct {
	At    time.Duration
	Value float32      // conditioned value
	State signal.State // accepted state after the poll

	Edge    bool // an edge was accepted
	Symbol  bool // Pulse holds a completed symbol
	Pulse   pulse.Pulse
	Flushed bool // the symbol buffer was flushed
	Emitted bool // Char was delivered to the sink
	Char    byte
}

// merge folds the outcome of a later event of the same poll into e.
func (e *Event) merge(o Event) {
	e.Edge = e.Edge || o.Edge
	if o.Symbol {
		e.Symbol = true
		e.Pulse = o.Pulse
	}
	e.Flushed = e.Flushed || o.Flushed
	if o.Emitted {
		e.Emitted = true
		e.Char = o.Char
	}
}

// Receiver owns one decoding pipeline. It is driven from a single polling
// context and is not safe for concurrent use.
type Receiver struct {
	cfg Config
	in  Sensor

	cond *signal.Conditioner
	cls  *pulse.Classifier
	asm  *assembler.Assembler
	sink assembler.Sink

	last    byte
	emitted bool
}

// New creates a receiver reading in and emitting decoded characters to sink.
// The push methods Sample, Level and Tick work without a sensor.
func New(cfg Config, in Sensor, sink assembler.Sink) *Receiver {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultSampleInterval
	}
	r := &Receiver{
		cfg:  cfg,
		in:   in,
		cond: signal.New(cfg.Signal),
		cls:  pulse.New(cfg.DashThreshold),
		sink: sink,
	}
	r.asm = assembler.New(assembler.Config{
		Capacity: cfg.Capacity,
		CharGap:  cfg.CharGap,
		Source:   cfg.Source,
	}, assembler.SinkFunc(r.emit))
	return r
}

func (r *Receiver) emit(ch byte) {
	r.last = ch
	r.emitted = true
	if r.sink != nil {
		r.sink.Emit(ch)
	}
}

// Poll reads the sensor once and advances the pipeline.
func (r *Receiver) Poll(now time.Duration) Event {
	ev := r.observe(now)
	r.settle(now, assembler.NoSource, &ev)
	return ev
}

// Sample pushes an analog reading taken at now.
func (r *Receiver) Sample(now time.Duration, v uint16) Event {
	edge, ok := r.cond.Sample(now, float32(v))
	ev := r.apply(now, edge, ok)
	r.settle(now, assembler.NoSource, &ev)
	return ev
}

// Level pushes a digital level observed at now.
func (r *Receiver) Level(now time.Duration, high bool) Event {
	edge, ok := r.cond.Level(now, high)
	ev := r.apply(now, edge, ok)
	r.settle(now, assembler.NoSource, &ev)
	return ev
}

// Tick evaluates the flush triggers without a new observation. Interrupt
// driven inputs call it periodically so the character gap still fires.
func (r *Receiver) Tick(now time.Duration) Event {
	ev := Event{At: now, Value: r.cond.Value(), State: r.cond.State()}
	r.settle(now, assembler.NoSource, &ev)
	return ev
}

// Run polls the sensor every SampleInterval forever.
func (r *Receiver) Run(clock hal.Clock) {
	for {
		r.Poll(clock.Now())
		clock.Delay(r.cfg.SampleInterval)
	}
}

func (r *Receiver) observe(now time.Duration) Event {
	var (
		edge signal.Edge
		ok   bool
	)
	if r.cfg.Input == Digital {
		edge, ok = r.cond.Level(now, r.in.Digital.Get())
	} else {
		edge, ok = r.cond.Sample(now, float32(r.in.Analog.Read()))
	}
	return r.apply(now, edge, ok)
}

func (r *Receiver) apply(now time.Duration, edge signal.Edge, ok bool) Event {
	ev := Event{At: now, Value: r.cond.Value(), State: r.cond.State(), Edge: ok}
	if !ok {
		return ev
	}
	if edge.Rising() {
		r.asm.Touch(now)
	}
	if p, done := r.cls.Edge(edge); done {
		ev.Symbol = true
		ev.Pulse = p
		mark := r.mark()
		r.asm.Append(now, p.Symbol)
		r.record(&ev, mark)
	}
	return ev
}

func (r *Receiver) settle(now time.Duration, active assembler.Source, ev *Event) {
	mark := r.mark()
	r.asm.Poll(now, active)
	r.record(ev, mark)
}

// mark snapshots the flush counter before an assembler call.
func (r *Receiver) mark() uint32 {
	r.emitted = false
	return r.asm.Stats().Flushes
}

// record copies the flush outcome since mark into ev.
func (r *Receiver) record(ev *Event, mark uint32) {
	if r.asm.Stats().Flushes != mark {
		ev.Flushed = true
	}
	if r.emitted {
		ev.Emitted = true
		ev.Char = r.last
	}
}

// State returns the accepted line state.
func (r *Receiver) State() signal.State {
	return r.cond.State()
}

// Config returns the receiver configuration.
func (r *Receiver) Config() Config {
	return r.cfg
}

// Conditioner exposes the signal stage.
func (r *Receiver) Conditioner() *signal.Conditioner {
	return r.cond
}

// Assembler exposes the symbol stage.
func (r *Receiver) Assembler() *assembler.Assembler {
	return r.asm
}
