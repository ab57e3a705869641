package isbn

import (
	"errors"
	"strconv"
	"strings"
)

// Group separators commonly used when printing an ISBN.
const (
	HyphenSeparator = "-"
	SpaceSeparator  = " "
)

// Parts is an ISBN split into its elements. Prefix is empty for ISBN-10
// input. When the registration group is unknown, or none of its rules match,
// Segmented is false and the whole body is held in Publication. A group
// without registrant ranges leaves Registrant empty.
type Parts struct {
	Prefix      string
	Group       string
	Agency      string
	Registrant  string
	Publication string
	Check       string
	Segmented   bool
}

// Join renders the parts separated by sep.
func (p Parts) Join(sep string) string {
	elems := make([]string, 0, 5)
	if p.Prefix != "" {
		elems = append(elems, p.Prefix)
	}
	if p.Group != "" {
		elems = append(elems, p.Group)
	}
	if p.Registrant != "" {
		elems = append(elems, p.Registrant)
	}
	elems = append(elems, p.Publication, p.Check)
	return strings.Join(elems, sep)
}

// String renders the parts separated by hyphens.
func (p Parts) String() string { return p.Join(HyphenSeparator) }

// Formatter renders ISBNs with a group separator. The zero value uses
// hyphens and the bundled range table.
type Formatter struct {
	Separator string
	Table     *RangeTable
}

// NewFormatter returns a Formatter using sep and the bundled range table.
func NewFormatter(sep string) *Formatter {
	return &Formatter{Separator: sep}
}

func (f *Formatter) table() (*RangeTable, error) {
	if f.Table != nil {
		return f.Table, nil
	}
	return DefaultRangeTable()
}

func (f *Formatter) separator() string {
	if f.Separator == "" {
		return HyphenSeparator
	}
	return f.Separator
}

// Format returns input split into prefix, group, registrant, publication and
// check digit. The check digit is not verified. Input that is not shaped like
// an ISBN is returned unchanged, so callers that need validation should Parse
// first. The only error is a failure to load the default range table.
func (f *Formatter) Format(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	parts, err := f.Dissect(input)
	if err != nil {
		if errors.Is(err, ErrNotWellFormed) {
			return input, nil
		}
		return "", err
	}
	return parts.Join(f.separator()), nil
}

// Dissect splits input into its elements. Unlike Format it reports input
// that is not shaped like an ISBN with ErrNotWellFormed.
func (f *Formatter) Dissect(input string) (Parts, error) {
	kind, sig := classify(fold(input))
	if kind == shapeNone {
		return Parts{}, wrapf(ErrNotWellFormed, input)
	}
	t, err := f.table()
	if err != nil {
		return Parts{}, err
	}
	begin := 0
	if kind == shapeISBN13 {
		begin = 3
	}
	return t.dissect(strings.ToUpper(sig), begin), nil
}

// dissect searches registration groups of growing length. Every group is
// keyed by its full EAN prefix, so 978 is put in front of ISBN-10 digits.
// The first group found decides: if none of its rules match, the number is
// left unsegmented rather than trying longer groups.
func (t *RangeTable) dissect(digits string, begin int) Parts {
	bodyEnd := begin + 9
	p := Parts{Check: digits[bodyEnd:]}
	if begin > 0 {
		p.Prefix = digits[:begin]
	}

	for i := begin + 1; i <= begin+MaxGroupLength; i++ {
		key := digits[:i]
		if begin == 0 {
			key = DefaultPrefix + key
		}
		g, ok := t.groups[key]
		if !ok {
			continue
		}
		if len(g.rules) == 0 {
			p.Group, p.Agency = digits[begin:i], g.agency
			p.Publication = digits[i:bodyEnd]
			p.Segmented = true
			return p
		}
		for _, r := range g.rules {
			end := i + r.Length
			if end > bodyEnd {
				continue
			}
			v, err := strconv.Atoi(digits[i:end])
			if err != nil || !r.Contains(v) {
				continue
			}
			p.Group, p.Agency = digits[begin:i], g.agency
			p.Registrant = digits[i:end]
			p.Publication = digits[end:bodyEnd]
			p.Segmented = true
			return p
		}
		break
	}

	p.Publication = digits[begin:bodyEnd]
	return p
}

// Format formats input with sep using the bundled range table. An empty sep
// means hyphens.
func Format(input, sep string) (string, error) {
	return NewFormatter(sep).Format(input)
}

// Dissect splits input using the bundled range table.
func Dissect(input string) (Parts, error) {
	return (&Formatter{}).Dissect(input)
}
