package monitor

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed renders msg through a noiseless channel and streams 1ms samples into a decoder.
func feed(cfg *config.Config, msg string, tail time.Duration) <-chan Point {
	mock := cfg.Mock
	mock.NoiseLevel = 0
	ch := link.NewChannel(mock, cfg.Transmitter.Timing(), msg)

	in := make(chan link.RawSample, 64)
	go func() {
		defer close(in)
		for at := time.Duration(0); at < ch.Duration()+tail; at += time.Millisecond {
			in <- link.RawSample{At: at, Value: ch.SampleAt(at)}
		}
	}()
	return NewDecoder(cfg, 64)(in)
}

func TestDecoder_DecodesStream(t *testing.T) {
	cfg := config.Default()

	var text []byte
	edges := 0
	for p := range feed(cfg, "SOS", 2*time.Second) {
		if p.Edge {
			edges++
		}
		if p.Emitted {
			text = append(text, p.Char)
		}
	}

	assert.Equal(t, "SOS", string(text))
	assert.Equal(t, 18, edges, "one rise and one fall per symbol")
}

func TestDecoder_DropsOutOfOrder(t *testing.T) {
	in := make(chan link.RawSample, 3)
	in <- link.RawSample{At: 10 * time.Millisecond, Value: 100}
	in <- link.RawSample{At: 5 * time.Millisecond, Value: 100}
	in <- link.RawSample{At: 11 * time.Millisecond, Value: 100}
	close(in)

	var got []time.Duration
	for p := range NewDecoder(config.Default(), 0)(in) {
		got = append(got, p.At)
	}
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 11 * time.Millisecond}, got)
}

func TestMonitor_Window(t *testing.T) {
	cfg := config.Default()
	m := New(cfg)

	m.ProcessPoints(feed(cfg, "SOS", 2*time.Second))

	snap := m.Snapshot()
	assert.Equal(t, "SOS", snap.Decoded)
	assert.Empty(t, snap.Text)
	assert.Equal(t, float32(cfg.Receiver.Threshold), snap.Threshold)

	require.NotEmpty(t, snap.Points)
	last := snap.Points[len(snap.Points)-1].At
	cutoff := last - cfg.Display.Window()
	assert.Greater(t, snap.Points[0].At, cutoff)
	assert.LessOrEqual(t, len(snap.Points), int(cfg.Display.Window()/time.Millisecond))

	require.NotEmpty(t, snap.Pulses)
	for _, p := range snap.Pulses {
		assert.Greater(t, p.End, cutoff)
	}
}

func TestMonitor_ProcessText(t *testing.T) {
	m := New(config.Default())

	in := make(chan link.Character, MaxText+10)
	for i := 0; i < MaxText+10; i++ {
		in <- link.Character{Timestamp: time.Now(), Char: 'A' + byte(i%26)}
	}
	close(in)
	m.ProcessText(in)

	text := m.Snapshot().Text
	assert.Len(t, text, MaxText)
	assert.True(t, strings.HasSuffix(text, string(rune('A'+(MaxText+9)%26))))
}

func TestMonitor_SnapshotIsCopy(t *testing.T) {
	m := New(config.Default())
	m.processPoint(Point{Raw: 1})
	m.pulses = append(m.pulses, pulse.Pulse{End: time.Second})

	snap := m.Snapshot()
	snap.Points[0].Raw = 99
	snap.Pulses[0].End = 0

	again := m.Snapshot()
	assert.Equal(t, uint16(1), again.Points[0].Raw)
	assert.Equal(t, time.Second, again.Pulses[0].End)
}

func TestMonitor_Clear(t *testing.T) {
	m := New(config.Default())
	m.processPoint(Point{Raw: 1})

	in := make(chan link.Character, 1)
	in <- link.Character{Char: 'E'}
	close(in)
	m.ProcessText(in)

	m.Clear()
	snap := m.Snapshot()
	assert.Empty(t, snap.Points)
	assert.Empty(t, snap.Text)
}

// TestMonitor_GracefulShutdown tests that no callbacks are sent after
// the point channel is closed.
func TestMonitor_GracefulShutdown(t *testing.T) {
	m := New(config.Default())

	var count atomic.Int32
	m.OnUpdate(func(Snapshot) { count.Add(1) })

	input := make(chan Point, 3)
	for i := 0; i < 3; i++ {
		input <- Point{Raw: uint16(i)}
	}
	close(input)
	m.ProcessPoints(input)
	assert.Equal(t, int32(3), count.Load())

	text := make(chan link.Character, 1)
	text <- link.Character{Char: 'E'}
	close(text)
	m.ProcessText(text)

	assert.Equal(t, int32(3), count.Load(), "No callbacks should be sent after shutdown")
	assert.Equal(t, "E", m.Snapshot().Text, "text is still buffered")
}

// TestMonitor_ResetShutdown tests that ResetShutdown allows callbacks again.
func TestMonitor_ResetShutdown(t *testing.T) {
	m := New(config.Default())

	var count atomic.Int32
	m.OnUpdate(func(Snapshot) { count.Add(1) })

	closed := make(chan Point)
	close(closed)
	m.ProcessPoints(closed)

	m.ResetShutdown()

	input := make(chan Point, 1)
	input <- Point{Raw: 1}
	close(input)
	m.ProcessPoints(input)

	assert.Equal(t, int32(1), count.Load())
}

func TestDownsamplePoints(t *testing.T) {
	points := make([]Point, 100)
	for i := range points {
		points[i].At = time.Duration(i) * time.Millisecond
	}
	points[3].Edge = true

	t.Run("no downsampling", func(t *testing.T) {
		dst := make([]Point, 0, 200)
		got := DownsamplePoints(dst, points, 200)
		require.Len(t, got, 100)
		assert.Equal(t, cap(dst), cap(got))
		assert.Equal(t, points[99], got[99])
	})

	t.Run("decimated", func(t *testing.T) {
		got := DownsamplePoints(nil, points, 10)
		require.Len(t, got, 10)
		assert.Equal(t, points[0], got[0])
		assert.Equal(t, points[3], got[1], "edge replaces the decimated sample")
		assert.Equal(t, points[90], got[9])
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i].At, got[i-1].At)
		}
	})

	t.Run("unbounded", func(t *testing.T) {
		got := DownsamplePoints(nil, points, 0)
		assert.Len(t, got, 100)
	})
}
