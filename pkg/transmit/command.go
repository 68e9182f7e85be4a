package transmit

import "github.com/itohio/gomorse/pkg/morse"

// MaxCommandLength bounds a message received over the serial port.
const MaxCommandLength = 32

// CommandBuffer assembles message lines arriving byte by byte on a UART.
//
// A line is terminated by '\n' or '\r'. Letters are upper-cased; only A-Z,
// 0-9 and spaces are accepted. Any other byte discards the line collected so
// far. Bytes past MaxCommandLength are ignored until the terminator.
type CommandBuffer struct {
	buf [MaxCommandLength]byte
	n   int
}

// Feed consumes one byte. When a non-empty line completes it is returned with true.
func (b *CommandBuffer) Feed(c byte) (string, bool) {
	switch {
	case c == '\n' || c == '\r':
		n := b.n
		b.n = 0
		if n == 0 {
			return "", false
		}
		return string(b.buf[:n]), true
	case c == ' ':
		if b.n == 0 {
			return "", false
		}
	default:
		c = byte(morse.Normalize(rune(c)))
		if _, err := morse.Encode(rune(c)); err != nil {
			b.n = 0
			return "", false
		}
	}

	if b.n < len(b.buf) {
		b.buf[b.n] = c
		b.n++
	}
	return "", false
}

// Reset discards any partial line.
func (b *CommandBuffer) Reset() {
	b.n = 0
}

// Len returns the number of buffered bytes.
func (b *CommandBuffer) Len() int {
	return b.n
}
