package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/itohio/gomorse/pkg/assembler"
	"github.com/itohio/gomorse/pkg/morse"
	"github.com/itohio/gomorse/pkg/pulse"
	"github.com/itohio/gomorse/pkg/receiver"
	"github.com/itohio/gomorse/pkg/signal"
	"github.com/itohio/gomorse/pkg/transmit"
	"gopkg.in/yaml.v3"
)

// Input names accepted in ReceiverConfig.Input.
const (
	InputAnalog  = "analog"
	InputDigital = "digital"
)

// DefaultPeakGuard is the rising-edge guard used by the host tools. It must
// stay below the rise-to-rise spacing of two dots (2 x Dot).
const DefaultPeakGuard = 80 * time.Millisecond

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Receiver    ReceiverConfig    `yaml:"receiver"`
	Mock        MockConfig        `yaml:"mock"`
	Display     DisplayConfig     `yaml:"display"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// TransmitterConfig contains keying parameters and the canned message.
type TransmitterConfig struct {
	Dot         time.Duration `yaml:"dot"`
	Dash        time.Duration `yaml:"dash"`
	LetterGap   time.Duration `yaml:"letter_gap"`
	Message     string        `yaml:"message"`
	RepeatDelay time.Duration `yaml:"repeat_delay"` // Pause between canned message repeats
}

// ReceiverConfig contains the decoding pipeline parameters.
type ReceiverConfig struct {
	Input          string        `yaml:"input"` // "analog" or "digital"
	FilterSize     int           `yaml:"filter_size"`
	Threshold      float64       `yaml:"threshold"`
	Debounce       time.Duration `yaml:"debounce"`   // 0 disables
	PeakGuard      time.Duration `yaml:"peak_guard"` // 0 disables
	DashThreshold  time.Duration `yaml:"dash_threshold"`
	CharGap        time.Duration `yaml:"char_gap"`
	MaxLength      int           `yaml:"max_length"`
	SampleInterval time.Duration `yaml:"sample_interval"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Bias          float64       `yaml:"bias"`           // Idle ADC level
	Amplitude     float64       `yaml:"amplitude"`      // ADC level added while the buzzer is on
	NoiseLevel    float64       `yaml:"noise_level"`    // Peak uniform noise in ADC counts
	SampleRate    time.Duration `yaml:"sample_rate"`    // Sample period
	MessagePeriod time.Duration `yaml:"message_period"` // Time between message starts
	Seed          uint64        `yaml:"seed"`
}

// DisplayConfig contains scope display parameters.
type DisplayConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
	MaxPoints     int     `yaml:"max_points"` // Points drawn per trace after downsampling
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Transmitter: TransmitterConfig{
			Dot:         transmit.DefaultDot,
			Dash:        transmit.DefaultDash,
			LetterGap:   transmit.DefaultLetterGap,
			Message:     "HELLOCYU",
			RepeatDelay: 3 * time.Second,
		},
		Receiver: ReceiverConfig{
			Input:          InputAnalog,
			FilterSize:     signal.DefaultFilterSize,
			Threshold:      signal.DefaultThreshold,
			Debounce:       signal.DefaultDebounce,
			PeakGuard:      DefaultPeakGuard,
			DashThreshold:  pulse.DefaultDashThreshold,
			CharGap:        assembler.DefaultCharGap,
			MaxLength:      assembler.MaxLength,
			SampleInterval: receiver.DefaultSampleInterval,
		},
		Mock: MockConfig{
			Bias:          120,
			Amplitude:     2600,
			NoiseLevel:    300,
			SampleRate:    time.Millisecond,
			MessagePeriod: 15 * time.Second,
			Seed:          1,
		},
		Display: DisplayConfig{
			WindowSeconds: 5,
			MaxPoints:     1000,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults replaces zero values that have no meaning with defaults.
// Debounce and PeakGuard are left alone: zero disables them.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Transmitter.Dot == 0 {
		c.Transmitter.Dot = def.Transmitter.Dot
	}
	if c.Transmitter.Dash == 0 {
		c.Transmitter.Dash = def.Transmitter.Dash
	}
	if c.Transmitter.LetterGap == 0 {
		c.Transmitter.LetterGap = def.Transmitter.LetterGap
	}
	if c.Transmitter.Message == "" {
		c.Transmitter.Message = def.Transmitter.Message
	}

	if c.Receiver.Input == "" {
		c.Receiver.Input = def.Receiver.Input
	}
	if c.Receiver.FilterSize == 0 {
		c.Receiver.FilterSize = def.Receiver.FilterSize
	}
	if c.Receiver.Threshold == 0 {
		c.Receiver.Threshold = def.Receiver.Threshold
	}
	if c.Receiver.DashThreshold == 0 {
		c.Receiver.DashThreshold = def.Receiver.DashThreshold
	}
	if c.Receiver.CharGap == 0 {
		c.Receiver.CharGap = def.Receiver.CharGap
	}
	if c.Receiver.MaxLength == 0 {
		c.Receiver.MaxLength = def.Receiver.MaxLength
	}
	if c.Receiver.SampleInterval == 0 {
		c.Receiver.SampleInterval = def.Receiver.SampleInterval
	}

	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.MessagePeriod == 0 {
		c.Mock.MessagePeriod = def.Mock.MessagePeriod
	}
	if c.Mock.Amplitude == 0 {
		c.Mock.Amplitude = def.Mock.Amplitude
	}

	if c.Display.WindowSeconds == 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}
	if c.Display.MaxPoints == 0 {
		c.Display.MaxPoints = def.Display.MaxPoints
	}
}

// Validate reports every inconsistent setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Serial.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("serial.baud_rate must be positive, got %d", c.Serial.BaudRate))
	}

	t := c.Transmitter
	if t.Dot <= 0 || t.Dash <= 0 || t.LetterGap < 0 {
		errs = append(errs, errors.New("transmitter timings must be positive"))
	}
	if t.Dash <= t.Dot {
		errs = append(errs, fmt.Errorf("transmitter.dash (%v) must be longer than transmitter.dot (%v)", t.Dash, t.Dot))
	}
	if err := ValidateMessage(t.Message); err != nil {
		errs = append(errs, fmt.Errorf("transmitter.message: %w", err))
	}

	r := c.Receiver
	if r.Input != InputAnalog && r.Input != InputDigital {
		errs = append(errs, fmt.Errorf("receiver.input must be %q or %q, got %q", InputAnalog, InputDigital, r.Input))
	}
	if r.FilterSize < 1 {
		errs = append(errs, fmt.Errorf("receiver.filter_size must be at least 1, got %d", r.FilterSize))
	}
	if r.Threshold <= 0 || r.Threshold >= 4095 {
		errs = append(errs, fmt.Errorf("receiver.threshold must be within (0, 4095), got %v", r.Threshold))
	}
	if r.Debounce < 0 || r.PeakGuard < 0 {
		errs = append(errs, errors.New("receiver.debounce and receiver.peak_guard must not be negative"))
	}
	if r.DashThreshold <= 0 {
		errs = append(errs, errors.New("receiver.dash_threshold must be positive"))
	}
	if r.CharGap <= 0 {
		errs = append(errs, errors.New("receiver.char_gap must be positive"))
	}
	if r.MaxLength < 1 || r.MaxLength > assembler.MaxLength {
		errs = append(errs, fmt.Errorf("receiver.max_length must be within [1, %d], got %d", assembler.MaxLength, r.MaxLength))
	}
	if r.DashThreshold <= t.Dot || r.DashThreshold > t.Dash {
		errs = append(errs, fmt.Errorf("receiver.dash_threshold (%v) must separate dot (%v) from dash (%v)", r.DashThreshold, t.Dot, t.Dash))
	}
	if r.CharGap > t.LetterGap+t.Dot {
		errs = append(errs, fmt.Errorf("receiver.char_gap (%v) exceeds the transmitter letter gap (%v)", r.CharGap, t.LetterGap+t.Dot))
	}

	m := c.Mock
	if m.SampleRate <= 0 {
		errs = append(errs, errors.New("mock.sample_rate must be positive"))
	}
	if m.NoiseLevel < 0 {
		errs = append(errs, errors.New("mock.noise_level must not be negative"))
	}

	if c.Display.WindowSeconds <= 0 {
		errs = append(errs, errors.New("display.window_seconds must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateMessage checks that every character of msg can be sent.
// Spaces are allowed and skipped by the transmitter.
func ValidateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return errors.New("message is empty")
	}
	if len(msg) > transmit.MaxCommandLength {
		return fmt.Errorf("message longer than %d characters", transmit.MaxCommandLength)
	}
	for _, r := range msg {
		if r == ' ' {
			continue
		}
		if _, err := morse.Encode(r); err != nil {
			return fmt.Errorf("character %q: %w", r, err)
		}
	}
	return nil
}

// Timing converts the transmitter settings.
func (t TransmitterConfig) Timing() transmit.Timing {
	return transmit.Timing{
		Dot:       t.Dot,
		Dash:      t.Dash,
		LetterGap: t.LetterGap,
	}
}

// Core converts the receiver settings.
func (r ReceiverConfig) Core() receiver.Config {
	input := receiver.Analog
	if r.Input == InputDigital {
		input = receiver.Digital
	}
	return receiver.Config{
		Input: input,
		Signal: signal.Config{
			FilterSize: r.FilterSize,
			Threshold:  float32(r.Threshold),
			Debounce:   r.Debounce,
			PeakGuard:  r.PeakGuard,
		},
		DashThreshold:  r.DashThreshold,
		CharGap:        r.CharGap,
		Capacity:       r.MaxLength,
		SampleInterval: r.SampleInterval,
	}
}

// Window returns the display window as a duration.
func (d DisplayConfig) Window() time.Duration {
	return time.Duration(d.WindowSeconds * float64(time.Second))
}
