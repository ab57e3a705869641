package isbn

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse recognizes an ISBN-10 or ISBN-13, optionally split into groups by
// hyphens, spaces or any other single separator character, and verifies
// its check digit. The whole input must be the ISBN.
func Parse(input string) (ISBN, error) {
	if input == "" {
		return ISBN{}, wrapf(ErrInvalidArgument, input)
	}

	kind, sig := classify(fold(input))
	switch kind {
	case shapeISBN13:
		if want := checkDigit13(sig); want != sig[12] {
			return ISBN{}, fmt.Errorf("%w %c: %q", ErrBadCheckDigit, want, input)
		}
		return ISBN{isbn13: sig, isbn10: to10(sig)}, nil
	case shapeISBN10:
		sig = strings.ToUpper(sig)
		if want := checkDigit10(sig); want != sig[9] {
			return ISBN{}, fmt.Errorf("%w %c: %q", ErrBadCheckDigit, want, input)
		}
		return ISBN{isbn13: to13(sig), isbn10: sig}, nil
	}
	return ISBN{}, wrapf(ErrNotWellFormed, input)
}

// MustParse is like Parse but panics on error. It is meant for constants
// in tests and package initialisation.
func MustParse(input string) ISBN {
	v, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// Normalize strips every character that is not a digit or X/x. Full-width
// digits are folded to ASCII first. It does not validate anything.
func Normalize(input string) string {
	if input == "" {
		return input
	}
	s := fold(input)
	clean := true
	for _, r := range s {
		if !isDigit(r) && !isCheckX(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isDigit(r) || isCheckX(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsValid reports whether the last character of input equals the check digit
// computed from the rest of it. Case is ignored, so a trailing x is accepted.
func IsValid(input string) bool {
	want, err := CalculateCheckDigit(input)
	if err != nil || want == "" {
		return false
	}
	s := fold(input)
	last, _ := utf8.DecodeLastRuneInString(s)
	return strings.EqualFold(want, string(last))
}

// IsISBN13 reports whether input has the shape of an ISBN-13. The check
// digit is not verified.
func IsISBN13(input string) bool {
	kind, _ := classify(fold(input))
	return kind == shapeISBN13
}

// IsISBN10 reports whether input has the shape of an ISBN-10. The check
// digit is not verified.
func IsISBN10(input string) bool {
	kind, _ := classify(fold(input))
	return kind == shapeISBN10
}

// CalculateCheckDigit returns the check digit for input, which may carry its
// check digit or not: 9 or 10 significant characters for ISBN-10, 978/979
// followed by 9 or 10 digits for ISBN-13. An empty input yields "".
func CalculateCheckDigit(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	kind, sig := classifyPartial(fold(input))
	switch kind {
	case shapeISBN13:
		return string(checkDigit13(sig)), nil
	case shapeISBN10:
		return string(checkDigit10(sig)), nil
	}
	return "", wrapf(ErrNotWellFormed, input)
}
