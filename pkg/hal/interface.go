// Package hal describes the platform primitives the Morse pipeline depends on.
//
// Peripheral bring-up (clocks, pin mux, ADC and UART setup) lives outside this
// module. TinyGo's machine.Pin already satisfies DigitalOutput and DigitalInput.
package hal

import (
	"io"
	"time"
)

// DigitalOutput drives a logic line such as a buzzer or LED.
type DigitalOutput interface {
	High()
	Low()
}

// DigitalInput reads the current logic level of a sensor or button line.
type DigitalInput interface {
	Get() bool
}

// AnalogSampleSource starts a conversion, waits for it and returns the 12-bit result.
// A conversion timeout yields 0, which callers treat as a regular zero sample.
type AnalogSampleSource interface {
	Read() uint16
}

// Clock is a monotonic millisecond clock with a blocking delay.
type Clock interface {
	Now() time.Duration
	Delay(d time.Duration)
}

// ByteSink transmits bytes over a serial link. Writes block until the
// hardware accepts the bytes.
type ByteSink = io.Writer

// AnalogFunc adapts a function to AnalogSampleSource.
type AnalogFunc func() uint16

// Read implements AnalogSampleSource.
func (f AnalogFunc) Read() uint16 { return f() }

// InputFunc adapts a function to DigitalInput.
type InputFunc func() bool

// Get implements DigitalInput.
func (f InputFunc) Get() bool { return f() }
