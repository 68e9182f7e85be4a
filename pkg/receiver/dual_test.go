package receiver

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pulseLine returns a line that is high during each [start, end) pair.
func pulseLine(spans ...[2]time.Duration) *hal.Line {
	clock := hal.NewVirtualClock(0)
	line := hal.NewLine(clock)
	for _, s := range spans {
		clock.Set(s[0])
		line.High()
		clock.Set(s[1])
		line.Low()
	}
	return line
}

func TestDual_SourceChangeFlushes(t *testing.T) {
	acousticLine := pulseLine([2]time.Duration{0, 50 * ms})
	infraredLine := pulseLine([2]time.Duration{200 * ms, 350 * ms})

	clock := hal.NewVirtualClock(0)
	var got collector

	acfg := acousticConfig()
	acfg.Source = AcousticSource
	acoustic := New(acfg, Sensor{Analog: hal.AnalogFunc(func() uint16 {
		if acousticLine.LevelAt(clock.Now()) {
			return 3000
		}
		return 0
	})}, &got)

	icfg := DigitalConfig()
	icfg.Source = InfraredSource
	infrared := New(icfg, Sensor{Digital: hal.InputFunc(func() bool {
		return infraredLine.LevelAt(clock.Now())
	})}, &got)

	d := NewDual(acoustic, infrared)

	var acousticAt time.Duration
	var sawInfrared bool
	for clock.Now() < 2*time.Second {
		a, _ := d.Poll(clock.Now())
		if a.Emitted {
			acousticAt = a.At
		}
		if d.Active() == InfraredSource {
			sawInfrared = true
		}
		clock.Delay(ms)
	}

	assert.True(t, sawInfrared)
	// The acoustic dot is flushed as soon as the infrared channel becomes
	// active, well before its own character gap expires.
	assert.Equal(t, 200*ms, acousticAt)
	assert.Equal(t, "ET", string(got.out))
	assert.Equal(t, assembler.NoSource, d.Active())
}

func TestDual_BothActiveKeepsPrevious(t *testing.T) {
	clock := hal.NewVirtualClock(0)
	var a, i bool

	acfg := DigitalConfig()
	acfg.Source = AcousticSource
	icfg := DigitalConfig()
	icfg.Source = InfraredSource
	d := NewDual(
		New(acfg, Sensor{Digital: hal.InputFunc(func() bool { return a })}, nil),
		New(icfg, Sensor{Digital: hal.InputFunc(func() bool { return i })}, nil),
	)

	i = true
	d.Poll(clock.Now())
	require.Equal(t, InfraredSource, d.Active())

	clock.Delay(20 * ms)
	a = true
	d.Poll(clock.Now())
	assert.Equal(t, InfraredSource, d.Active())

	clock.Delay(20 * ms)
	i = false
	d.Poll(clock.Now())
	assert.Equal(t, AcousticSource, d.Active())
}

func TestDual_PollEdges(t *testing.T) {
	line, end := render(t, "K")
	transitions := line.Transitions()
	q := NewEdgeQueue(8)
	var got collector

	acfg := acousticConfig()
	acfg.Source = AcousticSource
	icfg := DigitalConfig()
	icfg.Source = InfraredSource
	d := NewDual(
		New(acfg, Sensor{Analog: hal.AnalogFunc(func() uint16 { return 0 })}, &got),
		New(icfg, Sensor{}, &got),
	)

	var next, symbols int
	var sawInfrared bool
	for now := time.Duration(0); now < end+2*time.Second; now += ms {
		for next < len(transitions) && transitions[next].At <= now {
			require.True(t, q.Push(LevelEdge{At: transitions[next].At, Level: transitions[next].Level}))
			next++
		}
		_, ir := d.PollEdges(now, q)
		if ir.Symbol {
			symbols++
		}
		if d.Active() == InfraredSource {
			sawInfrared = true
		}
	}

	assert.True(t, sawInfrared)
	assert.Equal(t, 3, symbols)
	assert.Zero(t, q.Len())
	assert.Equal(t, "K", string(got.out))
}

func TestEdgeQueue_Order(t *testing.T) {
	q := NewEdgeQueue(4)
	require.Equal(t, 4, q.Cap())

	for k := 0; k < 3; k++ {
		require.True(t, q.Push(LevelEdge{At: time.Duration(k), Level: k%2 == 0}))
	}
	assert.Equal(t, 3, q.Len())

	for k := 0; k < 3; k++ {
		e, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, time.Duration(k), e.At)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestEdgeQueue_Full(t *testing.T) {
	q := NewEdgeQueue(3)
	assert.Equal(t, 4, q.Cap(), "rounded up to a power of two")

	for k := 0; k < 4; k++ {
		require.True(t, q.Push(LevelEdge{At: time.Duration(k)}))
	}
	assert.False(t, q.Push(LevelEdge{At: 99}))
	assert.Equal(t, uint32(1), q.Dropped())

	e, _ := q.Pop()
	assert.Equal(t, time.Duration(0), e.At)
	assert.True(t, q.Push(LevelEdge{At: 4}))
}

func TestEdgeQueue_Wraparound(t *testing.T) {
	q := NewEdgeQueue(2)
	for k := 0; k < 100; k++ {
		require.True(t, q.Push(LevelEdge{At: time.Duration(k)}))
		e, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, time.Duration(k), e.At)
	}
	assert.Zero(t, q.Len())
}

func TestEdgeQueue_Drain(t *testing.T) {
	line, end := render(t, "NO")
	transitions := line.Transitions()
	q := NewEdgeQueue(4)

	var got collector
	rx := New(DigitalConfig(), Sensor{}, &got)

	var next, drained int
	for now := time.Duration(0); now < end+2*time.Second; now += ms {
		// Interrupt handler: one entry per level change as it happens.
		for next < len(transitions) && transitions[next].At <= now {
			require.True(t, q.Push(LevelEdge{At: transitions[next].At, Level: transitions[next].Level}))
			next++
		}
		drained += q.Drain(rx)
		rx.Tick(now)
	}

	assert.Equal(t, len(transitions), drained)
	assert.Zero(t, q.Dropped())
	assert.Equal(t, "NO", string(got.out))
}

func TestEdgeQueue_DrainAll(t *testing.T) {
	q := NewEdgeQueue(8)
	q.Push(LevelEdge{At: 0, Level: true})
	q.Push(LevelEdge{At: 200 * ms, Level: false})

	var got collector
	rx := New(DigitalConfig(), Sensor{}, &got)
	assert.Equal(t, 2, q.Drain(rx))
	assert.Zero(t, q.Len())

	rx.Tick(2 * time.Second)
	assert.Equal(t, "T", string(got.out))
}

func TestEdgeQueue_Concurrent(t *testing.T) {
	const total = 10000
	q := NewEdgeQueue(64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for k := 0; k < total; {
			if q.Push(LevelEdge{At: time.Duration(k)}) {
				k++
				continue
			}
			runtime.Gosched()
		}
	}()

	for next := 0; next < total; {
		e, ok := q.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		require.Equal(t, time.Duration(next), e.At)
		next++
	}
	wg.Wait()
	assert.Zero(t, q.Len())
}
