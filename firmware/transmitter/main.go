//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/transmit"
)

var (
	uart  = machine.UART0
	clock = hal.NewSystemClock()

	tx  *transmit.Transmitter
	key = transmit.StraightKey{In: PIN_KEY, Out: PIN_BUZZER, ActiveLow: true}

	// Line assembled from UART bytes
	commands transmit.CommandBuffer
	message  = CANNED_MESSAGE
)

func main() {
	PIN_BUZZER.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_KEY.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	tx = transmit.New(PIN_BUZZER, clock, transmit.Timing{
		Dot:       DOT_MS * time.Millisecond,
		Dash:      DASH_MS * time.Millisecond,
		LetterGap: LETTER_GAP_MS * time.Millisecond,
	})
	tx.OnSkip = func(r rune) {
		println("skipped", string(r))
	}

	// Canned loop: the message blocks while it is keyed, the key and the UART
	// are serviced in the pause between repeats.
	for {
		tx.Send(message)
		idle(REPEAT_DELAY_MS * time.Millisecond)
	}
}

// idle services the straight key and UART commands for d.
func idle(d time.Duration) {
	end := clock.Now() + d
	for clock.Now() < end {
		key.Poll()
		processSerial()
		time.Sleep(POLL_INTERVAL_MS * time.Millisecond)
	}
	// Leave the buzzer off if the key was held across the deadline
	if key.Pressed() {
		PIN_BUZZER.Low()
	}
}

func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if line, ok := commands.Feed(data); ok {
			message = line
			println("message", message)
		}
	}
}
