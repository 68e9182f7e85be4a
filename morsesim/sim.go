package main

import (
	"fmt"
	"io"
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/receiver"
	"github.com/itohio/gomorse/pkg/signal"
	"github.com/itohio/gomorse/pkg/transmit"
)

// result is the outcome of one simulated transmission.
type result struct {
	Text     string
	Symbols  []morse.Symbol
	Duration time.Duration // length of the transmission itself
	Signal   signal.Stats
	Symbol   assembler.Stats
}

// simulate keys message onto the modelled channel and decodes it in virtual time.
// Sampling continues for two character gaps after the transmission ends so the
// last character is flushed.
func simulate(cfg *config.Config, message string, events func(receiver.Event)) result {
	ch := link.NewChannel(cfg.Mock, cfg.Transmitter.Timing(), message)

	var text []byte
	rx := receiver.New(cfg.Receiver.Core(), receiver.Sensor{}, assembler.SinkFunc(func(c byte) {
		text = append(text, c)
	}))

	step := cfg.Mock.SampleRate
	if step <= 0 {
		step = time.Millisecond
	}
	end := ch.Duration() + 2*cfg.Receiver.CharGap

	var res result
	for now := time.Duration(0); now < end; now += step {
		var ev receiver.Event
		if cfg.Receiver.Input == config.InputDigital {
			ev = rx.Level(now, ch.Level(now))
		} else {
			ev = rx.Sample(now, ch.SampleAt(now))
		}
		if ev.Symbol {
			res.Symbols = append(res.Symbols, ev.Pulse.Symbol)
		}
		if events != nil {
			events(ev)
		}
	}

	res.Text = string(text)
	res.Duration = ch.Duration()
	res.Signal = rx.Conditioner().Stats()
	res.Symbol = rx.Assembler().Stats()
	return res
}

// encode prints each character's code and the keyed on-intervals of message.
func encode(w io.Writer, timing transmit.Timing, message string) error {
	for _, r := range message {
		if r == ' ' {
			continue
		}
		code, err := morse.Encode(r)
		if err != nil {
			return fmt.Errorf("character %q: %w", r, err)
		}
		fmt.Fprintf(w, "%c %-6s %v\n", morse.Normalize(r), code, timing.Code(code))
	}

	ch := link.NewChannel(config.MockConfig{}, timing, message)
	fmt.Fprintf(w, "total %v\n", ch.Duration())
	for _, iv := range ch.Intervals() {
		fmt.Fprintf(w, "on %v-%v\n", iv.Start, iv.End)
	}
	return nil
}

// report prints the decoded text and the pipeline counters.
func report(w io.Writer, message string, res result) {
	symbols := make([]byte, len(res.Symbols))
	for i, s := range res.Symbols {
		symbols[i] = s.String()[0]
	}

	fmt.Fprintf(w, "sent     %s\n", message)
	fmt.Fprintf(w, "decoded  %s\n", res.Text)
	fmt.Fprintf(w, "symbols  %s\n", symbols)
	fmt.Fprintf(w, "duration %v\n", res.Duration)
	fmt.Fprintf(w, "edges    accepted=%d bounced=%d guarded=%d\n", res.Signal.Accepted, res.Signal.Bounced, res.Signal.Guarded)
	fmt.Fprintf(w, "chars    flushes=%d emitted=%d misses=%d rejected=%d\n", res.Symbol.Flushes, res.Symbol.Emitted, res.Symbol.Misses, res.Symbol.Rejected)
}
