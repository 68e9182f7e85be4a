package scope

import (
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/monitor"
	"github.com/itohio/gomorse/pkg/receiver"
	"github.com/stretchr/testify/assert"
)

func TestAutoScale(t *testing.T) {
	window := 5 * time.Second

	t.Run("empty", func(t *testing.T) {
		b := autoScale(nil, 1000, window)
		assert.Equal(t, bounds{yMin: 0, yMax: 2000, xMin: 0, xMax: window}, b)
	})

	t.Run("fits raw filtered and threshold", func(t *testing.T) {
		points := []monitor.Point{
			{Raw: 100, Event: receiver.Event{At: time.Second, Value: 150}},
			{Raw: 2100, Event: receiver.Event{At: 2 * time.Second, Value: 1900}},
		}
		b := autoScale(points, 1000, window)
		assert.InDelta(t, -100, b.yMin, 1e-9)
		assert.InDelta(t, 2300, b.yMax, 1e-9)
		assert.Equal(t, time.Second, b.xMin)
		assert.Equal(t, 6*time.Second, b.xMax)
	})

	t.Run("flat signal", func(t *testing.T) {
		points := []monitor.Point{{Raw: 1000, Event: receiver.Event{Value: 1000}}}
		b := autoScale(points, 1000, window)
		assert.Less(t, b.yMin, b.yMax)
	})
}

func TestBounds_Mapping(t *testing.T) {
	b := bounds{yMin: 0, yMax: 100, xMin: time.Second, xMax: 3 * time.Second}

	assert.InDelta(t, 10, b.x(time.Second, 10, 200), 1e-4)
	assert.InDelta(t, 110, b.x(2*time.Second, 10, 200), 1e-4)
	assert.InDelta(t, 60, b.y(0, 10, 50), 1e-4)
	assert.InDelta(t, 10, b.y(100, 10, 50), 1e-4)

	assert.Equal(t, float32(10), bounds{}.x(time.Second, 10, 200), "zero span pins to the left edge")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0.50s", formatTime(500*time.Millisecond))
	assert.Equal(t, "2.5s", formatTime(2500*time.Millisecond))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "SOS", tail("SOS", 5))
	assert.Equal(t, "OS", tail("SOS", 2))
}
