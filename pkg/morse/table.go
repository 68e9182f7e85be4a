// Package morse holds the static code table for A-Z and 0-9.
package morse

import "errors"

// Alphabet lists every encodable symbol in table order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrNoMapping is returned by Encode for characters outside A-Z and 0-9.
var ErrNoMapping = errors.New("no morse mapping")

type entry struct {
	char byte
	code Code
}

// table is indexed A-Z then 0-9. Codes are unique.
var table = [len(Alphabet)]entry{
	{'A', mustParse(".-")},
	{'B', mustParse("-...")},
	{'C', mustParse("-.-.")},
	{'D', mustParse("-..")},
	{'E', mustParse(".")},
	{'F', mustParse("..-.")},
	{'G', mustParse("--.")},
	{'H', mustParse("....")},
	{'I', mustParse("..")},
	{'J', mustParse(".---")},
	{'K', mustParse("-.-")},
	{'L', mustParse(".-..")},
	{'M', mustParse("--")},
	{'N', mustParse("-.")},
	{'O', mustParse("---")},
	{'P', mustParse(".--.")},
	{'Q', mustParse("--.-")},
	{'R', mustParse(".-.")},
	{'S', mustParse("...")},
	{'T', mustParse("-")},
	{'U', mustParse("..-")},
	{'V', mustParse("...-")},
	{'W', mustParse(".--")},
	{'X', mustParse("-..-")},
	{'Y', mustParse("-.--")},
	{'Z', mustParse("--..")},
	{'0', mustParse("-----")},
	{'1', mustParse(".----")},
	{'2', mustParse("..---")},
	{'3', mustParse("...--")},
	{'4', mustParse("....-")},
	{'5', mustParse(".....")},
	{'6', mustParse("-....")},
	{'7', mustParse("--...")},
	{'8', mustParse("---..")},
	{'9', mustParse("----.")},
}

// Normalize upper-cases ASCII letters and leaves everything else untouched.
func Normalize(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// Encode returns the code for r. Lowercase letters are accepted.
func Encode(r rune) (Code, error) {
	r = Normalize(r)
	switch {
	case r >= 'A' && r <= 'Z':
		return table[r-'A'].code, nil
	case r >= '0' && r <= '9':
		return table[26+r-'0'].code, nil
	}
	return Code{}, ErrNoMapping
}

// Decode finds the character whose code equals c.
// The second result is false when nothing matches; garbled input is expected
// on a noisy channel and is not an error.
func Decode(c Code) (byte, bool) {
	for i := range table {
		if table[i].code == c {
			return table[i].char, true
		}
	}
	return 0, false
}
