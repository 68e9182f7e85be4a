//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 1 // Poll interval for the sound sensor and the edge queue

	// Acoustic pipeline
	FILTER_SIZE       = 10   // Moving average window in samples
	THRESHOLD         = 1000 // Active above this 12-bit level
	DEBOUNCE_MS       = 50
	PEAK_GUARD_MS     = 80 // Below the 100ms rise-to-rise spacing of two dots
	DASH_THRESHOLD_MS = 100
	CHAR_GAP_MS       = 1000

	// Infrared pipeline
	IR_ACTIVE_LOW   = true // Demodulating IR receivers pull low on carrier
	EDGE_QUEUE_SIZE = 32

	// Emit "#uptime_ms,value" lines for the host scope every TRACE_EVERY polls, 0 disables
	TRACE_EVERY = 0

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Sensor pins
	PIN_SOUND = machine.A1
	PIN_IR    = machine.D7

	// Serial configuration
	// Decoded characters are single bytes. Trace lines are ~12 bytes, so at
	// 1000 polls/s tracing needs TRACE_EVERY >= 2 to fit 11,520 bytes/s.
	UART_BAUD_RATE = 115200
)
