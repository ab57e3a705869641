package isbn

import (
	"errors"
	"fmt"
)

// Errors returned by Parse, CalculateCheckDigit and Dissect. They are always
// wrapped with the offending input, so compare with errors.Is.
var (
	// ErrInvalidArgument reports caller misuse, such as parsing an empty string.
	ErrInvalidArgument = errors.New("isbn: invalid argument")

	// ErrNotWellFormed reports input that matches neither the ISBN-10 nor the
	// ISBN-13 grammar.
	ErrNotWellFormed = errors.New("isbn: not well-formed")

	// ErrBadCheckDigit reports input with the right shape but a wrong check digit.
	ErrBadCheckDigit = errors.New("isbn: suspect check digit")
)

func wrapf(err error, input string) error {
	return fmt.Errorf("%w: %q", err, input)
}
