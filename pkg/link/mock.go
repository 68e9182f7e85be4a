package link

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/receiver"
)

// Mock simulates a transmitter and receiver pair joined by a noisy acoustic
// channel. It streams the sensor samples and the characters the simulated
// receiver node decodes from them.
type Mock struct {
	cfg *config.Config

	samples   chan RawSample
	text      chan Character
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	startTime time.Time
	message   string
	channel   *Channel
	epoch     time.Duration // uptime at which the current message was loaded
	rx        *receiver.Receiver
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Mock{
		cfg:     cfg,
		samples: make(chan RawSample, DefaultBufferSize),
		text:    make(chan Character, DefaultBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		message: strings.ToUpper(cfg.Transmitter.Message),
	}
	m.reset(0)
	return m
}

// reset rebuilds the channel for the current message and restarts the
// simulated receiver. Callers hold mu or own m exclusively.
func (m *Mock) reset(epoch time.Duration) {
	m.channel = NewChannel(m.cfg.Mock, m.cfg.Transmitter.Timing(), m.message)
	m.epoch = epoch
	m.rx = receiver.New(m.cfg.Receiver.Core(), receiver.Sensor{}, assembler.SinkFunc(m.emit))
}

// Connect starts generating samples.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.connected = true
	m.startTime = time.Now()
	m.reset(0)

	go m.generate()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)
	close(m.text)

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// Text returns the channel of characters decoded by the simulated receiver.
func (m *Mock) Text() <-chan Character {
	return m.text
}

// Send replaces the simulated message. It starts keying on the next sample.
func (m *Mock) Send(message string) error {
	cmd, err := Command(message)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrNotConnected
	}

	m.message = strings.TrimSuffix(cmd, "\n")
	m.reset(m.uptime())

	return nil
}

// Message returns the message being keyed.
func (m *Mock) Message() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *Mock) uptime() time.Duration {
	return time.Since(m.startTime).Truncate(time.Millisecond)
}

// generate produces a sample every SampleRate until the device is closed.
func (m *Mock) generate() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in mock generator: %v", r)
		}
	}()

	ticker := time.NewTicker(m.cfg.Mock.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			// Sends happen under the lock so Close cannot close the channels mid-send.
			m.mu.Lock()
			if !m.connected {
				m.mu.Unlock()
				return
			}
			sample := m.step(m.uptime())
			select {
			case m.samples <- sample:
			default:
				// Channel full, skip
			}
			m.mu.Unlock()
		}
	}
}

// step produces the sample at uptime and feeds it to the simulated receiver.
// The message repeats every MessagePeriod, or back to back if it is longer.
func (m *Mock) step(uptime time.Duration) RawSample {
	period := m.cfg.Mock.MessagePeriod
	if d := m.channel.Duration(); d > period {
		period = d
	}

	t := uptime - m.epoch
	if period > 0 {
		t %= period
	}

	s := RawSample{At: uptime, Value: m.channel.SampleAt(t)}
	m.rx.Sample(s.At, s.Value)
	return s
}

func (m *Mock) emit(ch byte) {
	select {
	case m.text <- Character{Timestamp: time.Now(), Char: ch}:
	default:
		log.Printf("Text channel full, dropping '%c'", ch)
	}
}
