// Package link connects the host to a Morse node, over a serial port or a simulated channel.
package link

import (
	"errors"
	"time"
)

const (
	// DefaultBaudRate is the UART rate of both nodes.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the sample and character channels.
	DefaultBufferSize = 1000
)

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
)

// RawSample is one sensor reading stamped with the node's uptime.
type RawSample struct {
	At    time.Duration
	Value uint16 // 12-bit ADC reading (0-4095)
}

// Character is a decoded character reported by the node.
type Character struct {
	Timestamp time.Time
	Char      byte
}

// Device defines the interface for Morse nodes (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Samples() <-chan RawSample
	Text() <-chan Character
	Send(message string) error
	IsConnected() bool
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Mock)(nil)
)
