package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"go.bug.st/serial"
)

// traceMarker starts a sample line in the node's output stream:
// "#<uptime_ms>,<value>\n". Every other printable byte is a decoded character.
const traceMarker = '#'

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial is a connection to a node's UART.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	samples   chan RawSample
	text      chan Character
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		samples:  make(chan RawSample, bufSize),
		text:     make(chan Character, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	go d.read(port)

	return nil
}

// Close closes the connection and the output channels.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	close(d.samples)
	close(d.text)

	return nil
}

// Samples returns the channel of trace samples. It stays empty unless the
// node firmware was built with tracing enabled.
func (d *Serial) Samples() <-chan RawSample {
	return d.samples
}

// Text returns the channel of decoded characters.
func (d *Serial) Text() <-chan Character {
	return d.text
}

// Send replaces the transmitter node's message.
func (d *Serial) Send(message string) error {
	cmd, err := Command(message)
	if err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	if _, err := io.WriteString(d.conn, cmd); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Command normalizes a message into the line a transmitter node accepts.
func Command(message string) (string, error) {
	message = strings.ToUpper(strings.TrimSpace(message))
	if err := config.ValidateMessage(message); err != nil {
		return "", fmt.Errorf("invalid message: %w", err)
	}
	return message + "\n", nil
}

func (d *Serial) read(port io.Reader) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in serial reader: %v", r)
		}
	}()

	if err := d.decode(bufio.NewReader(port)); err != nil && !errors.Is(err, io.EOF) && d.ctx.Err() == nil {
		log.Printf("Error reading from serial port: %v", err)
	}
}

// decode splits the node's byte stream into characters and trace samples.
func (d *Serial) decode(r *bufio.Reader) error {
	for {
		if d.ctx.Err() != nil {
			return nil
		}

		b, err := r.ReadByte()
		if err != nil {
			return err
		}

		switch {
		case b == traceMarker:
			line, err := r.ReadString('\n')
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			s, err := parseSample(line)
			if err != nil {
				log.Printf("Failed to parse trace line '%s': %v", line, err)
				continue
			}
			select {
			case d.samples <- s:
			case <-d.ctx.Done():
				return nil
			default:
				log.Printf("Samples channel full, dropping sample")
			}
		case isCharacter(b):
			select {
			case d.text <- Character{Timestamp: time.Now(), Char: b}:
			case <-d.ctx.Done():
				return nil
			default:
				log.Printf("Text channel full, dropping '%c'", b)
			}
		case b == '\r' || b == '\n' || b == ' ':
		default:
			log.Printf("Unexpected byte 0x%02x from node", b)
		}
	}
}

func isCharacter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parseSample parses a trace line without its marker.
// Format: uptime_ms,value
// Example: 123456,2048
func parseSample(line string) (RawSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return RawSample{}, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	ms, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid uptime: %w", err)
	}
	if ms < 0 {
		return RawSample{}, fmt.Errorf("negative uptime: %d", ms)
	}

	value, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid value: %w", err)
	}
	if value > 4095 {
		return RawSample{}, fmt.Errorf("value out of range: %d (max 4095)", value)
	}

	return RawSample{
		At:    time.Duration(ms) * time.Millisecond,
		Value: uint16(value),
	}, nil
}
