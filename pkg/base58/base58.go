package base58

import (
	"fmt"
	"strings"

	mrbase58 "github.com/mr-tron/base58"
)

// Alphabet is the Bitcoin Base58 alphabet used for addresses, keys, asset ids
// and signatures.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// DecodeError is returned when a string is not valid Base58, or when it
// decodes to a length other than the one the caller requires.
type DecodeError struct {
	Input    string
	Position int  // index of the offending character, -1 for length mismatches
	Char     rune // offending character, zero for length mismatches

	ExpectedLength int
	ActualLength   int
}

func (e *DecodeError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("invalid base58 character %q at position %d", e.Char, e.Position)
	}
	return fmt.Sprintf("base58 value decodes to %d bytes, expected %d", e.ActualLength, e.ExpectedLength)
}

// Encode returns the Base58 encoding of b. Every leading zero byte becomes a
// leading '1'.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return mrbase58.Encode(b)
}

// Decode is the inverse of Encode. The empty string decodes to an empty,
// non-nil slice.
func Decode(s string) ([]byte, error) {
	for i, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return nil, &DecodeError{Input: s, Position: i, Char: r}
		}
	}
	if len(s) == 0 {
		return []byte{}, nil
	}

	decoded, err := mrbase58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 value: %w", err)
	}
	return decoded, nil
}

// DecodeFixed decodes s and requires the result to be exactly n bytes long.
func DecodeFixed(s string, n int) ([]byte, error) {
	decoded, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) != n {
		return nil, &DecodeError{
			Input:          s,
			Position:       -1,
			ExpectedLength: n,
			ActualLength:   len(decoded),
		}
	}
	return decoded, nil
}
