// Package assembler collects classified symbols into characters.
package assembler

import (
	"io"
	"time"

	"github.com/itohio/gomorse/pkg/morse"
)

const (
	// MaxLength is the symbol buffer capacity.
	MaxLength = 6
	// DefaultCharGap is the silence that ends a character.
	DefaultCharGap = 1000 * time.Millisecond
)

// Source identifies a physical input channel. NoSource means "unknown" and
// never triggers a source-change flush.
type Source uint8

const NoSource Source = 0

// State of the symbol buffer.
type State uint8

const (
	Empty State = iota
	Filling
	ReadyToFlush
)

// Reason explains why a flush happened.
type Reason uint8

const (
	FlushFull Reason = iota + 1
	FlushGap
	FlushSource
	FlushManual
)

// String returns a short name for the reason.
func (r Reason) String() string {
	switch r {
	case FlushFull:
		return "full"
	case FlushGap:
		return "gap"
	case FlushSource:
		return "source"
	case FlushManual:
		return "manual"
	}
	return "unknown"
}

// Sink receives decoded characters.
type Sink interface {
	Emit(ch byte)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ch byte)

// Emit implements Sink.
func (f SinkFunc) Emit(ch byte) { f(ch) }

// WriterSink writes each character as a single byte, e.g. to a UART.
// Write errors are ignored; the writer is expected to block until the byte is accepted.
type WriterSink struct {
	W   io.Writer
	buf [1]byte
}

// Emit implements Sink.
func (s *WriterSink) Emit(ch byte) {
	s.buf[0] = ch
	_, _ = s.W.Write(s.buf[:])
}

// Config configures an Assembler.
type Config struct {
	Capacity int           // buffer capacity, 1..MaxLength; 0 means MaxLength
	CharGap  time.Duration // silence after the last activity that ends a character
	Source   Source        // channel this assembler belongs to
}

// Stats counts assembler outcomes.
type Stats struct {
	Flushes  uint32 // flushes of a non-empty buffer
	Emitted  uint32 // characters delivered to the sink
	Misses   uint32 // flushes that matched no character
	Rejected uint32 // appends refused because the buffer was full
}

// Assembler accumulates symbols and resolves them to characters on a
// character boundary: a full buffer, a long enough silence, or activity on a
// different source. Unmatched codes are dropped silently.
type Assembler struct {
	cfg  Config
	sink Sink

	code         morse.Code
	lastActivity time.Duration
	stats        Stats

	// OnMiss, if set, is called with every code that matched no character.
	OnMiss func(code morse.Code, reason Reason)
}

// New creates an empty Assembler emitting to sink. A nil sink discards characters.
func New(cfg Config, sink Sink) *Assembler {
	if cfg.Capacity <= 0 || cfg.Capacity > MaxLength {
		cfg.Capacity = MaxLength
	}
	if sink == nil {
		sink = SinkFunc(func(byte) {})
	}
	return &Assembler{cfg: cfg, sink: sink}
}

// Append adds a symbol observed at now. It is a no-op returning false when the
// buffer is already full. The append that fills the buffer flushes it.
func (a *Assembler) Append(now time.Duration, sym morse.Symbol) bool {
	if a.code.Len() >= a.cfg.Capacity {
		a.stats.Rejected++
		return false
	}
	a.code, _ = a.code.Append(sym)
	a.lastActivity = now
	if a.code.Len() >= a.cfg.Capacity {
		a.Flush(FlushFull)
	}
	return true
}

// Touch records line activity that is not a completed symbol, such as a rising edge.
func (a *Assembler) Touch(now time.Duration) {
	a.lastActivity = now
}

// Poll evaluates the flush triggers at now. active is the source currently
// producing a signal, or NoSource. It reports whether a flush happened.
func (a *Assembler) Poll(now time.Duration, active Source) bool {
	if a.code.Len() == 0 {
		return false
	}
	switch {
	case a.code.Len() >= a.cfg.Capacity:
		a.Flush(FlushFull)
	case active != NoSource && active != a.cfg.Source:
		a.Flush(FlushSource)
	case now-a.lastActivity >= a.cfg.CharGap:
		a.Flush(FlushGap)
	default:
		return false
	}
	return true
}

// Flush decodes the buffer, emits the character on a match and clears the
// buffer in every case. It returns the decoded character, if any.
func (a *Assembler) Flush(reason Reason) (byte, bool) {
	code := a.code
	a.code = morse.Code{}
	if code.Len() == 0 {
		return 0, false
	}

	a.stats.Flushes++
	ch, ok := morse.Decode(code)
	if !ok {
		a.stats.Misses++
		if a.OnMiss != nil {
			a.OnMiss(code, reason)
		}
		return 0, false
	}
	a.stats.Emitted++
	a.sink.Emit(ch)
	return ch, true
}

// State returns the buffer state.
func (a *Assembler) State() State {
	switch n := a.code.Len(); {
	case n == 0:
		return Empty
	case n >= a.cfg.Capacity:
		return ReadyToFlush
	}
	return Filling
}

// Len returns the number of buffered symbols.
func (a *Assembler) Len() int {
	return a.code.Len()
}

// Code returns the buffered symbols.
func (a *Assembler) Code() morse.Code {
	return a.code
}

// Source returns the channel this assembler belongs to.
func (a *Assembler) Source() Source {
	return a.cfg.Source
}

// Stats returns the outcome counters.
func (a *Assembler) Stats() Stats {
	return a.stats
}
