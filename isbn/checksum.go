package isbn

import "strings"

// DefaultPrefix is the EAN "bookland" prefix shared by every ISBN-10.
const DefaultPrefix = "978"

// checkDigit13 computes the ISBN-13 check digit over the first 12 digits of s.
func checkDigit13(s string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += w * int(s[i]-'0')
	}
	return byte((10-sum%10)%10) + '0'
}

// checkDigit10 computes the ISBN-10 check character over the first 9 digits of s.
func checkDigit10(s string) byte {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += (i + 1) * int(s[i]-'0')
	}
	if r := sum % 11; r != 10 {
		return byte(r) + '0'
	}
	return 'X'
}

// to13 expects at least 9 leading digits.
func to13(isbn10 string) string {
	var sb strings.Builder
	sb.Grow(13)
	sb.WriteString(DefaultPrefix)
	sb.WriteString(isbn10[:9])
	sb.WriteByte(checkDigit13(sb.String()))
	return sb.String()
}

// to10 expects 12 or 13 digits. It returns "" when the number carries a
// prefix other than 978.
func to10(isbn13 string) string {
	if !strings.HasPrefix(isbn13, DefaultPrefix) {
		return ""
	}
	body := isbn13[3:12]
	return body + string(checkDigit10(body))
}

// ToISBN13 converts an ISBN-10 to its ISBN-13 form: the 978 prefix, the first
// nine digits and a freshly computed check digit. The old check character is
// ignored, so it does not have to be valid.
func ToISBN13(isbn10 string) (string, error) {
	s := Normalize(isbn10)
	if len(s) < 9 || !allDigits(s[:9]) {
		return "", wrapf(ErrNotWellFormed, isbn10)
	}
	return to13(s), nil
}

// ToISBN10 converts a 978-prefixed ISBN-13 to its ISBN-10 form. The boolean is
// false for 979 numbers, which have no ISBN-10, and for malformed input.
func ToISBN10(isbn13 string) (string, bool) {
	s := Normalize(isbn13)
	if len(s) < 12 || !allDigits(s[:12]) {
		return "", false
	}
	v := to10(s)
	return v, v != ""
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
