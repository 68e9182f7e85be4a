package link

import (
	"math/rand/v2"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/hal"
	"github.com/itohio/gomorse/pkg/transmit"
)

// adcMax is the full-scale 12-bit reading.
const adcMax = 4095

// Channel models the acoustic path between the buzzer and the sound sensor.
// The message is keyed once in virtual time; sampling then reads the recorded
// buzzer timeline and adds bias and uniform noise.
type Channel struct {
	line     *hal.Line
	duration time.Duration

	bias      float32
	amplitude float32
	noise     float32
	rng       *rand.Rand
}

// NewChannel renders message with timing into a new channel.
func NewChannel(cfg config.MockConfig, timing transmit.Timing, message string) *Channel {
	clock := hal.NewVirtualClock(0)
	line := hal.NewLine(clock)
	transmit.New(line, clock, timing).Send(message)

	return &Channel{
		line:      line,
		duration:  clock.Now(),
		bias:      float32(cfg.Bias),
		amplitude: float32(cfg.Amplitude),
		noise:     float32(cfg.NoiseLevel),
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// SampleAt returns the ADC reading at t since the message started.
// It is not safe for concurrent use.
func (c *Channel) SampleAt(t time.Duration) uint16 {
	v := c.bias
	if c.line.LevelAt(t) {
		v += c.amplitude
	}
	if c.noise > 0 {
		v += c.noise * (2*c.rng.Float32() - 1)
	}
	v = math32.Max(0, math32.Min(adcMax, math32.Round(v)))
	return uint16(v)
}

// Level reports whether the buzzer is on at t.
func (c *Channel) Level(t time.Duration) bool {
	return c.line.LevelAt(t)
}

// Duration returns how long the message takes to key.
func (c *Channel) Duration() time.Duration {
	return c.duration
}

// Intervals returns the buzzer on-intervals.
func (c *Channel) Intervals() []hal.Interval {
	return c.line.Intervals()
}
