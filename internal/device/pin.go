package device

import (
	"fmt"
	"strings"

	"github.com/roach88/shufflepad/internal/matrix"
)

// PinLength is the number of selections in one attempt.
const PinLength = 6

// SecretPin is the fixed secret the attempts are checked against.
type SecretPin [PinLength]matrix.Digit

// ParsePin parses a string of exactly six decimal digits.
func ParsePin(s string) (SecretPin, error) {
	var p SecretPin
	if len(s) != PinLength {
		return p, &ConfigError{
			Code:    ErrCodeInvalidPin,
			Message: fmt.Sprintf("pin must have %d digits, got %d", PinLength, len(s)),
		}
	}
	for i, c := range s {
		if c < '0' || c > '9' {
			return p, &ConfigError{
				Code:    ErrCodeInvalidPin,
				Message: fmt.Sprintf("pin position %d is not a digit", i),
			}
		}
		p[i] = matrix.Digit(c - '0')
	}
	return p, nil
}

// MustParsePin is ParsePin for constants and tests. Panics on error.
func MustParsePin(s string) SecretPin {
	p, err := ParsePin(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String masks the PIN so it never reaches logs.
func (p SecretPin) String() string {
	return strings.Repeat("*", PinLength)
}
