//go:build tinygo

package main

import "machine"

const (
	// Keying timing in milliseconds
	DOT_MS        = 50
	DASH_MS       = 150
	LETTER_GAP_MS = 1000

	// Canned message and the pause between repeats
	CANNED_MESSAGE  = "HELLOCYU"
	REPEAT_DELAY_MS = 3000

	// Idle loop cadence for key passthrough and UART commands
	POLL_INTERVAL_MS = 1

	// Buzzer output and straight key input (pressed pulls the pin low)
	PIN_BUZZER = machine.D2
	PIN_KEY    = machine.D3

	// Serial configuration
	// Commands are at most 32 characters plus newline, sent by hand.
	UART_BAUD_RATE = 115200
)
