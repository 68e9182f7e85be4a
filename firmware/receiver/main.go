//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"strconv"
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/receiver"
	"github.com/itohio/gomorse/pkg/signal"
)

var (
	adcSound machine.ADC
	uart     = machine.UART0
	clock    = hal.NewSystemClock()

	// Filled by the IR pin interrupt, drained by the main loop
	edges = receiver.NewEdgeQueue(EDGE_QUEUE_SIZE)

	sink = assembler.WriterSink{W: uart}

	lastSound  uint16
	traceCount int
	traceBuf   [24]byte
)

func main() {
	PIN_SOUND.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_IR.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	machine.InitADC()
	adcSound = machine.ADC{Pin: PIN_SOUND}
	adcSound.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	dual := receiver.NewDual(
		receiver.New(acousticConfig(), receiver.Sensor{Analog: hal.AnalogFunc(readSound)}, &sink),
		receiver.New(infraredConfig(), receiver.Sensor{}, &sink),
	)
	dual.Acoustic.Assembler().OnMiss = reportMiss
	dual.Infrared.Assembler().OnMiss = reportMiss

	err := PIN_IR.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		edges.Push(receiver.LevelEdge{At: clock.Now(), Level: p.Get() != IR_ACTIVE_LOW})
	})
	if err != nil {
		println("ir interrupt:", err.Error())
	}

	for {
		now := clock.Now()
		dual.PollEdges(now, edges)
		trace(now)
		clock.Delay(SAMPLE_INTERVAL_MS * time.Millisecond)
	}
}

func acousticConfig() receiver.Config {
	cfg := receiver.DefaultConfig()
	cfg.Source = receiver.AcousticSource
	cfg.Signal = signal.Config{
		FilterSize: FILTER_SIZE,
		Threshold:  THRESHOLD,
		Debounce:   DEBOUNCE_MS * time.Millisecond,
		PeakGuard:  PEAK_GUARD_MS * time.Millisecond,
	}
	cfg.DashThreshold = DASH_THRESHOLD_MS * time.Millisecond
	cfg.CharGap = CHAR_GAP_MS * time.Millisecond
	cfg.SampleInterval = SAMPLE_INTERVAL_MS * time.Millisecond
	return cfg
}

func infraredConfig() receiver.Config {
	cfg := receiver.DigitalConfig()
	cfg.Source = receiver.InfraredSource
	cfg.DashThreshold = DASH_THRESHOLD_MS * time.Millisecond
	cfg.CharGap = CHAR_GAP_MS * time.Millisecond
	return cfg
}

// readSound scales the 16-bit TinyGo reading down to the configured resolution.
func readSound() uint16 {
	lastSound = adcSound.Get() >> (16 - ADC_RESOLUTION)
	return lastSound
}

func reportMiss(code morse.Code, reason assembler.Reason) {
	println("miss", code.String(), reason.String())
}

// trace writes "#uptime_ms,value\n" with the last raw sound reading.
func trace(now time.Duration) {
	if TRACE_EVERY == 0 {
		return
	}
	traceCount++
	if traceCount < TRACE_EVERY {
		return
	}
	traceCount = 0

	b := traceBuf[:0]
	b = append(b, '#')
	b = strconv.AppendInt(b, now.Milliseconds(), 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(lastSound), 10)
	b = append(b, '\n')
	uart.Write(b)
}
