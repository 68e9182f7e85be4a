package pulse

import (
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundary(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want morse.Symbol
	}{
		{name: "zero length", d: 0, want: morse.Dot},
		{name: "noise spike", d: time.Millisecond, want: morse.Dot},
		{name: "threshold minus one", d: DefaultDashThreshold - time.Millisecond, want: morse.Dot},
		{name: "threshold", d: DefaultDashThreshold, want: morse.Dash},
		{name: "long dash", d: 10 * DefaultDashThreshold, want: morse.Dash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.d, DefaultDashThreshold))
		})
	}
}

func TestClassifier_RiseFall(t *testing.T) {
	c := New(DefaultDashThreshold)

	c.Rise(1000 * time.Millisecond)
	assert.True(t, c.Pending())

	p, ok := c.Fall(1050 * time.Millisecond)
	require.True(t, ok)
	assert.False(t, c.Pending())
	assert.Equal(t, morse.Dot, p.Symbol)
	assert.Equal(t, 50*time.Millisecond, p.Duration())

	c.Rise(2000 * time.Millisecond)
	p, ok = c.Fall(2150 * time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, morse.Dash, p.Symbol)
}

func TestClassifier_FallWithoutRise(t *testing.T) {
	c := New(DefaultDashThreshold)

	_, ok := c.Fall(time.Second)
	assert.False(t, ok)
}

func TestClassifier_Edge(t *testing.T) {
	c := New(DefaultDashThreshold)

	_, ok := c.Edge(signal.Edge{At: 0, State: signal.Active})
	assert.False(t, ok)

	p, ok := c.Edge(signal.Edge{At: 100 * time.Millisecond, State: signal.Inactive})
	require.True(t, ok)
	assert.Equal(t, Pulse{Start: 0, End: 100 * time.Millisecond, Symbol: morse.Dash}, p)
}
