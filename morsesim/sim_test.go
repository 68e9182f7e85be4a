package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/receiver"
	"github.com/itohio/gomorse/pkg/transmit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name    string
		message string
		setup   func(cfg *config.Config)
		want    string
	}{
		{name: "analog default", message: "SOS", want: "SOS"},
		{name: "analog canned", message: "HELLOCYU", want: "HELLOCYU"},
		{name: "spaces skipped", message: "73 DE", want: "73DE"},
		{
			name:    "digital",
			message: "PARIS",
			setup: func(cfg *config.Config) {
				d := receiver.DigitalConfig()
				cfg.Receiver.Input = config.InputDigital
				cfg.Receiver.FilterSize = d.Signal.FilterSize
				cfg.Receiver.Threshold = float64(d.Signal.Threshold)
				cfg.Receiver.Debounce = d.Signal.Debounce
				cfg.Receiver.PeakGuard = d.Signal.PeakGuard
			},
			want: "PARIS",
		},
		{
			name:    "wide peak guard merges dots",
			message: "S",
			setup: func(cfg *config.Config) {
				cfg.Mock.NoiseLevel = 0
				cfg.Receiver.PeakGuard = 500 * time.Millisecond
			},
			want: "E",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.setup != nil {
				tt.setup(cfg)
			}
			require.NoError(t, cfg.Validate())

			res := simulate(cfg, tt.message, nil)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, cfg.Transmitter.Timing().Duration(tt.message), res.Duration)
			assert.Zero(t, res.Symbol.Misses)
		})
	}
}

func TestSimulate_Events(t *testing.T) {
	var symbols []morse.Symbol
	var chars []byte
	res := simulate(config.Default(), "A", func(ev receiver.Event) {
		if ev.Symbol {
			symbols = append(symbols, ev.Pulse.Symbol)
		}
		if ev.Emitted {
			chars = append(chars, ev.Char)
		}
	})

	assert.Equal(t, []morse.Symbol{morse.Dot, morse.Dash}, symbols)
	assert.Equal(t, symbols, res.Symbols)
	assert.Equal(t, "A", string(chars))
	assert.Equal(t, uint32(4), res.Signal.Accepted)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, transmit.DefaultTiming(), "et"))

	want := strings.Join([]string{
		"E .      1.1s",
		"T -      1.2s",
		"total 2.3s",
		"on 0s-50ms",
		"on 1.1s-1.25s",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestEncode_Unmapped(t *testing.T) {
	var buf bytes.Buffer
	err := encode(&buf, transmit.DefaultTiming(), "E?")
	assert.ErrorIs(t, err, morse.ErrNoMapping)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, "E", result{Text: "E", Symbols: []morse.Symbol{morse.Dot}, Duration: 1100 * time.Millisecond})

	out := buf.String()
	assert.Contains(t, out, "decoded  E\n")
	assert.Contains(t, out, "symbols  .\n")
	assert.Contains(t, out, "duration 1.1s\n")
}
