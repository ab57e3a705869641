package isbn

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

type shape int

const (
	shapeNone shape = iota
	shapeISBN10
	shapeISBN13
)

func (s shape) String() string {
	switch s {
	case shapeISBN10:
		return "ISBN-10"
	case shapeISBN13:
		return "ISBN-13"
	}
	return "none"
}

// fold maps full-width digits and punctuation to their ASCII forms.
func fold(s string) string {
	return width.Narrow.String(s)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isCheckX(r rune) bool { return r == 'X' || r == 'x' }

// significant walks s and returns its digits and X characters in order.
//
// Every other rune is a separator. A separator must sit between two
// significant characters, so leading, trailing and doubled separators are
// rejected, and so is an X that is not the very last character.
func significant(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	var sb strings.Builder
	sb.Grow(len(s))
	pendingSep := true // nothing significant seen yet
	for i, r := range s {
		if r == utf8.RuneError {
			return "", false
		}
		switch {
		case isDigit(r):
			sb.WriteRune(r)
			pendingSep = false
		case isCheckX(r):
			if i != len(s)-1 {
				return "", false
			}
			sb.WriteRune(r)
			pendingSep = false
		default:
			if pendingSep {
				return "", false
			}
			pendingSep = true
		}
	}
	if pendingSep {
		return "", false
	}
	return sb.String(), true
}

// hasEANPrefix reports whether s literally starts with 978 or 979; the
// prefix itself may not contain separators.
func hasEANPrefix(s string) bool {
	return strings.HasPrefix(s, "978") || strings.HasPrefix(s, "979")
}

// classify matches s against the two full ISBN shapes and returns the
// significant characters on success.
func classify(s string) (shape, string) {
	sig, ok := significant(s)
	if !ok {
		return shapeNone, ""
	}
	last := rune(sig[len(sig)-1])
	switch len(sig) {
	case 13:
		if hasEANPrefix(s) && !isCheckX(last) {
			return shapeISBN13, sig
		}
	case 10:
		return shapeISBN10, sig
	}
	return shapeNone, ""
}

// classifyPartial is classify for input that may lack its check digit:
// 978/979 followed by 9 or 10 digits, or 9 digits with an optional check
// character.
func classifyPartial(s string) (shape, string) {
	sig, ok := significant(s)
	if !ok {
		return shapeNone, ""
	}
	last := rune(sig[len(sig)-1])
	if (len(sig) == 12 || len(sig) == 13) && hasEANPrefix(s) && !isCheckX(last) {
		return shapeISBN13, sig
	}
	switch len(sig) {
	case 9:
		if !isCheckX(last) {
			return shapeISBN10, sig
		}
	case 10:
		return shapeISBN10, sig
	}
	return shapeNone, ""
}
