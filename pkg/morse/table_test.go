package morse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, r := range Alphabet {
		code, err := Encode(r)
		require.NoError(t, err, "encode %q", r)

		got, ok := Decode(code)
		require.True(t, ok, "decode %q (%s)", r, code)
		assert.Equal(t, byte(r), got)
	}
}

func TestTable_UniqueCodes(t *testing.T) {
	seen := make(map[Code]byte, len(table))
	for _, e := range table {
		if prev, dup := seen[e.code]; dup {
			t.Fatalf("%c and %c share code %s", prev, e.char, e.code)
		}
		seen[e.code] = e.char
	}
	assert.Len(t, seen, 36)
}

func TestTable_Order(t *testing.T) {
	for i, e := range table {
		assert.Equal(t, Alphabet[i], e.char)
		assert.LessOrEqual(t, e.code.Len(), 5)
		assert.Greater(t, e.code.Len(), 0)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		in      rune
		want    string
		wantErr bool
	}{
		{name: "upper letter", in: 'S', want: "..."},
		{name: "lower letter", in: 's', want: "..."},
		{name: "lower q", in: 'q', want: "--.-"},
		{name: "digit zero", in: '0', want: "-----"},
		{name: "digit nine", in: '9', want: "----."},
		{name: "space", in: ' ', wantErr: true},
		{name: "punctuation", in: '?', wantErr: true},
		{name: "non ascii", in: 'Ü', wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoMapping)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDecode_NoMatch(t *testing.T) {
	tests := []string{
		"",
		"......",
		"------",
		".-.-.-",
		"..--",
	}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, ok := Decode(mustParse(s))
			assert.False(t, ok)
		})
	}
}

func TestDecode_OrderSensitive(t *testing.T) {
	// N and A differ only in order.
	n, ok := Decode(NewCode(Dash, Dot))
	require.True(t, ok)
	assert.Equal(t, byte('N'), n)

	a, ok := Decode(NewCode(Dot, Dash))
	require.True(t, ok)
	assert.Equal(t, byte('A'), a)
}

func TestDecode_LengthSensitive(t *testing.T) {
	// E, I, S, H and 5 are prefixes of each other.
	for n, want := range []byte{'E', 'I', 'S', 'H', '5'} {
		symbols := make([]Symbol, n+1)
		got, ok := Decode(NewCode(symbols...))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 'A', Normalize('a'))
	assert.Equal(t, 'Z', Normalize('z'))
	assert.Equal(t, 'Z', Normalize('Z'))
	assert.Equal(t, '7', Normalize('7'))
	assert.Equal(t, ' ', Normalize(' '))
}
