package link

import (
	"testing"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/transmit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietMock() config.MockConfig {
	cfg := config.Default().Mock
	cfg.NoiseLevel = 0
	return cfg
}

func TestChannel_Levels(t *testing.T) {
	ch := NewChannel(quietMock(), transmit.DefaultTiming(), "E")

	assert.Equal(t, transmit.DefaultTiming().Duration("E"), ch.Duration())
	assert.Equal(t, uint16(2720), ch.SampleAt(0))
	assert.Equal(t, uint16(2720), ch.SampleAt(49*time.Millisecond))
	assert.Equal(t, uint16(120), ch.SampleAt(50*time.Millisecond))
	assert.Equal(t, uint16(120), ch.SampleAt(time.Hour))
	assert.True(t, ch.Level(10*time.Millisecond))
	assert.Len(t, ch.Intervals(), 1)
}

func TestChannel_Clamp(t *testing.T) {
	tests := []struct {
		name      string
		bias      float64
		amplitude float64
		wantOn    uint16
		wantOff   uint16
	}{
		{name: "in range", bias: 100, amplitude: 1000, wantOn: 1100, wantOff: 100},
		{name: "above full scale", bias: 0, amplitude: 5000, wantOn: 4095, wantOff: 0},
		{name: "negative bias", bias: -200, amplitude: 1000, wantOn: 800, wantOff: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietMock()
			cfg.Bias = tt.bias
			cfg.Amplitude = tt.amplitude
			ch := NewChannel(cfg, transmit.DefaultTiming(), "T")

			assert.Equal(t, tt.wantOn, ch.SampleAt(0))
			assert.Equal(t, tt.wantOff, ch.SampleAt(time.Second))
		})
	}
}

func TestChannel_NoiseBounds(t *testing.T) {
	cfg := config.Default().Mock
	ch := NewChannel(cfg, transmit.DefaultTiming(), "T")

	for i := 0; i < 1000; i++ {
		on := ch.SampleAt(0)
		off := ch.SampleAt(time.Second)
		require.InDelta(t, cfg.Bias+cfg.Amplitude, float64(on), cfg.NoiseLevel+1)
		require.InDelta(t, cfg.Bias, float64(off), cfg.NoiseLevel+1)
	}
}

func TestMock_DecodesMessage(t *testing.T) {
	cfg := config.Default()
	m := NewMock(cfg)

	duration := cfg.Transmitter.Timing().Duration(cfg.Transmitter.Message)
	for uptime := time.Duration(0); uptime < duration+time.Second; uptime += time.Millisecond {
		m.step(uptime)
	}

	var text []byte
	for len(m.text) > 0 {
		text = append(text, (<-m.text).Char)
	}
	assert.Equal(t, "HELLOCYU", string(text))
}

func TestMock_MessageRepeats(t *testing.T) {
	cfg := config.Default()
	cfg.Mock.NoiseLevel = 0
	cfg.Mock.MessagePeriod = 3 * time.Second
	cfg.Transmitter.Message = "E"
	m := NewMock(cfg)

	assert.Equal(t, uint16(2720), m.step(0).Value)
	assert.Equal(t, uint16(120), m.step(time.Second).Value)
	assert.Equal(t, uint16(2720), m.step(3*time.Second).Value)
	assert.Equal(t, uint16(2720), m.step(6*time.Second+10*time.Millisecond).Value)
}

func TestMock_SendNotConnected(t *testing.T) {
	m := NewMock(nil)
	assert.ErrorIs(t, m.Send("SOS"), ErrNotConnected)
}

func TestMock_Send(t *testing.T) {
	m := NewMock(nil)
	require.NoError(t, m.Connect())
	defer m.Close()

	assert.Error(t, m.Send("what?"))
	assert.Equal(t, "HELLOCYU", m.Message())

	require.NoError(t, m.Send("sos"))
	assert.Equal(t, "SOS", m.Message())
}

func TestMock_ConnectTwice(t *testing.T) {
	m := NewMock(nil)
	require.NoError(t, m.Connect())
	defer m.Close()

	assert.ErrorIs(t, m.Connect(), ErrAlreadyConnected)
	assert.True(t, m.IsConnected())
}

func TestMock_CloseNotConnected(t *testing.T) {
	m := NewMock(nil)
	assert.NoError(t, m.Close())
	assert.False(t, m.IsConnected())
}

// TestMock_GracefulShutdown tests that Mock device closes its channels
// when Close() is called.
func TestMock_GracefulShutdown(t *testing.T) {
	m := NewMock(nil)
	require.NoError(t, m.Connect())

	samples := m.Samples()

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range samples {
			received++
			if received == 3 {
				m.Close()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Samples channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3, "Should receive samples before channel closes")

	_, ok := <-m.Text()
	for ok {
		_, ok = <-m.Text()
	}
	assert.False(t, m.IsConnected())
}
