// Package isbn parses, validates, converts and formats International
// Standard Book Numbers.
//
// Recognition accepts ISBN-10 and ISBN-13 with any single-character group
// separators:
//
//	v, err := isbn.Parse("1-118-00759-x")
//	v.ISBN13() // "9781118007594"
//	v.ISBN10() // "111800759X"
//
// Formatting splits a number into registration group, registrant and
// publication elements using the registrant ranges published by the
// International ISBN Agency (RangeMessage.xml). An excerpt of that file is
// bundled; LoadRangeMessage and NewRangeTable accept the full one.
package isbn

import (
	"fmt"
)

// URNPrefix is the namespace of ISBN URNs (RFC 3187).
const URNPrefix = "urn:isbn:"

// ISBN is a validated book number held in its canonical 13-digit form and,
// when one exists, its 10-digit form. The zero value is not a valid ISBN.
//
// Both forms are always derived from one another, so two values compare
// equal with == exactly when their ISBN-13 forms match, and an ISBN can be
// used as a map key.
type ISBN struct {
	isbn13 string
	isbn10 string
}

// ISBN13 returns the 13 digits of the number.
func (v ISBN) ISBN13() string { return v.isbn13 }

// ISBN10 returns the 10-character form, or "" for 979 numbers.
func (v ISBN) ISBN10() string { return v.isbn10 }

// HasISBN10 reports whether the number has an ISBN-10 form.
func (v ISBN) HasISBN10() bool { return v.isbn10 != "" }

// IsZero reports whether v is the zero value.
func (v ISBN) IsZero() bool { return v.isbn13 == "" }

// Equal compares the ISBN-13 forms.
func (v ISBN) Equal(other ISBN) bool { return v.isbn13 == other.isbn13 }

// URN returns the number as urn:isbn:<ISBN-13>.
func (v ISBN) URN() string { return URNPrefix + v.isbn13 }

// String returns the ISBN-13 form.
func (v ISBN) String() string { return v.isbn13 }

// GoString implements fmt.GoStringer.
func (v ISBN) GoString() string {
	isbn10 := v.isbn10
	if isbn10 == "" {
		isbn10 = "nonexistent"
	}
	return fmt.Sprintf("isbn.ISBN[isbn13=%s,isbn10=%s]", v.isbn13, isbn10)
}

// MarshalText encodes only the ISBN-13 form.
func (v ISBN) MarshalText() ([]byte, error) {
	return []byte(v.isbn13), nil
}

// UnmarshalText parses text and derives the ISBN-10 form again rather than
// trusting an encoded one.
func (v *ISBN) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
