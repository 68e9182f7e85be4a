package morse

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCodeLength is the number of symbols a Code can hold.
const MaxCodeLength = 8

// ErrCodeTooLong is returned when a code does not fit into a Code value.
var ErrCodeTooLong = errors.New("morse code too long")

// Symbol is a single Morse unit.
type Symbol uint8

const (
	Dot Symbol = iota
	Dash
)

// String returns "." for a dot and "-" for a dash.
func (s Symbol) String() string {
	if s == Dash {
		return "-"
	}
	return "."
}

// Code is an ordered sequence of up to MaxCodeLength symbols.
// It is a comparable value: two codes are equal iff they have the same
// length and the same symbols in the same order.
type Code struct {
	n    uint8
	bits uint8 // bit i set means symbol i is a dash
}

// NewCode builds a Code from symbols. Symbols past MaxCodeLength are ignored.
func NewCode(symbols ...Symbol) Code {
	var c Code
	for _, s := range symbols {
		var ok bool
		if c, ok = c.Append(s); !ok {
			break
		}
	}
	return c
}

// ParseCode parses a string of '.' and '-' characters.
func ParseCode(s string) (Code, error) {
	if len(s) > MaxCodeLength {
		return Code{}, fmt.Errorf("%w: %q has %d symbols (max %d)", ErrCodeTooLong, s, len(s), MaxCodeLength)
	}
	var c Code
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.':
			c, _ = c.Append(Dot)
		case '-':
			c, _ = c.Append(Dash)
		default:
			return Code{}, fmt.Errorf("invalid morse symbol %q at %d in %q", s[i], i, s)
		}
	}
	return c, nil
}

// mustParse is used for the static table only.
func mustParse(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of symbols.
func (c Code) Len() int {
	return int(c.n)
}

// At returns symbol i. It panics if i is out of range.
func (c Code) At(i int) Symbol {
	if i < 0 || i >= int(c.n) {
		panic(fmt.Sprintf("morse: symbol index %d out of range [0,%d)", i, c.n))
	}
	return Symbol((c.bits >> uint(i)) & 1)
}

// Append returns c with s appended. The second result is false when c is full.
func (c Code) Append(s Symbol) (Code, bool) {
	if c.n >= MaxCodeLength {
		return c, false
	}
	if s == Dash {
		c.bits |= 1 << c.n
	}
	c.n++
	return c, true
}

// Symbols returns the symbols as a slice.
func (c Code) Symbols() []Symbol {
	out := make([]Symbol, c.n)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

// String renders the code as dots and dashes, e.g. "...---...".
func (c Code) String() string {
	var b strings.Builder
	b.Grow(int(c.n))
	for i := 0; i < int(c.n); i++ {
		b.WriteString(c.At(i).String())
	}
	return b.String()
}
