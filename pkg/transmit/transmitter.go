// Package transmit keys Morse code onto a digital output.
package transmit

import (
	"time"

	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/morse"
)

// Default segment lengths.
const (
	DefaultDot       = 50 * time.Millisecond
	DefaultDash      = 150 * time.Millisecond
	DefaultLetterGap = 1000 * time.Millisecond
)

// Timing holds the on/off segment lengths.
//
// Every symbol is followed by a Dot-long silence, including dashes.
type Timing struct {
	Dot       time.Duration
	Dash      time.Duration
	LetterGap time.Duration
}

// DefaultTiming returns the stock buzzer timing.
func DefaultTiming() Timing {
	return Timing{
		Dot:       DefaultDot,
		Dash:      DefaultDash,
		LetterGap: DefaultLetterGap,
	}
}

// Symbol returns the on-time of a symbol.
func (t Timing) Symbol(s morse.Symbol) time.Duration {
	if s == morse.Dash {
		return t.Dash
	}
	return t.Dot
}

// Code returns how long a single character code takes, trailing letter gap included.
func (t Timing) Code(c morse.Code) time.Duration {
	var d time.Duration
	for i := 0; i < c.Len(); i++ {
		d += t.Symbol(c.At(i)) + t.Dot
	}
	return d + t.LetterGap
}

// Duration returns how long Send(text) blocks. Unmapped characters take no time.
func (t Timing) Duration(text string) time.Duration {
	var d time.Duration
	for _, r := range text {
		code, err := morse.Encode(r)
		if err != nil {
			continue
		}
		d += t.Code(code)
	}
	return d
}

// Transmitter toggles an output pin to send text. Send blocks for the full
// length of the transmission and cannot be interrupted.
type Transmitter struct {
	out    hal.DigitalOutput
	clock  hal.Clock
	timing Timing

	// OnSkip, if set, is called for every character without a code.
	OnSkip func(r rune)
}

// New creates a Transmitter. The output is driven low.
func New(out hal.DigitalOutput, clock hal.Clock, timing Timing) *Transmitter {
	out.Low()
	return &Transmitter{out: out, clock: clock, timing: timing}
}

// Send transmits text, skipping characters outside A-Z/0-9 without any gap.
// It returns the number of characters sent.
func (t *Transmitter) Send(text string) int {
	var n int
	for _, r := range text {
		if t.SendChar(r) {
			n++
		}
	}
	return n
}

// SendChar transmits a single character. It reports false if the character was skipped.
func (t *Transmitter) SendChar(r rune) bool {
	code, err := morse.Encode(r)
	if err != nil {
		if t.OnSkip != nil {
			t.OnSkip(r)
		}
		return false
	}
	t.SendCode(code)
	return true
}

// SendCode keys a raw code followed by the letter gap.
func (t *Transmitter) SendCode(code morse.Code) {
	for i := 0; i < code.Len(); i++ {
		t.out.High()
		t.clock.Delay(t.timing.Symbol(code.At(i)))
		t.out.Low()
		t.clock.Delay(t.timing.Dot)
	}
	t.clock.Delay(t.timing.LetterGap)
}

// Timing returns the configured segment lengths.
func (t *Transmitter) Timing() Timing {
	return t.timing
}
