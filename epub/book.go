package epub

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/jianyun8023/goisbn/isbn"
)

// Book is the part of an EPUB package document that identifies the book.
type Book struct {
	Path        string
	OpfPath     string
	Title       string
	Identifiers []Identifier
}

// Identifier is one dc:identifier element.
type Identifier struct {
	ID     string
	Scheme string // opf:scheme, lower-cased
	Value  string

	// Type is the ONIX product identifier code an EPUB 3 identifier-type
	// refinement assigns to the element ("02" ISBN-10, "15" ISBN-13).
	Type string
}

// ONIX codelist 5 product identifier types that denote an ISBN.
const (
	onixISBN10 = "02"
	onixISBN13 = "15"
)

func (b *Book) readMetadata(md *etree.Element) {
	refines := make(map[string]string)

	for _, el := range md.ChildElements() {
		switch el.Tag {
		case "title":
			if b.Title == "" {
				b.Title = strings.TrimSpace(el.Text())
			}
		case "identifier":
			b.Identifiers = append(b.Identifiers, Identifier{
				ID:     el.SelectAttrValue("id", ""),
				Scheme: strings.ToLower(strings.TrimSpace(el.SelectAttrValue("scheme", ""))),
				Value:  strings.TrimSpace(el.Text()),
			})
		case "meta":
			if el.SelectAttrValue("property", "") != "identifier-type" {
				continue
			}
			if id := strings.TrimPrefix(el.SelectAttrValue("refines", ""), "#"); id != "" {
				refines[id] = strings.TrimSpace(el.Text())
			}
		case "dc-metadata", "x-metadata":
			// OPF 1.x nests the Dublin Core elements one level deeper
			b.readMetadata(el)
		}
	}

	for i, id := range b.Identifiers {
		if typ, ok := refines[id.ID]; ok && id.ID != "" {
			b.Identifiers[i].Type = typ
		}
	}
}

// ISBNs returns the identifier values that claim to be ISBNs, with any
// "urn:isbn:" or "isbn:" prefix removed. The values are not validated; an
// identifier without an ISBN scheme is included when it has the shape of one.
func (b *Book) ISBNs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range b.Identifiers {
		v, ok := id.isbn()
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (id Identifier) isbn() (string, bool) {
	value := id.Value
	lower := strings.ToLower(value)

	switch {
	case strings.HasPrefix(lower, isbn.URNPrefix):
		return strings.TrimSpace(value[len(isbn.URNPrefix):]), true
	case strings.HasPrefix(lower, "isbn:"):
		return strings.TrimSpace(value[len("isbn:"):]), true
	case id.Scheme == "isbn", id.Type == onixISBN10, id.Type == onixISBN13:
		return value, value != ""
	case strings.HasPrefix(lower, "urn:"), strings.HasPrefix(lower, "uuid:"):
		return "", false
	}

	// Heuristic: Check if value looks like an ISBN
	if isbn.IsISBN13(value) || isbn.IsISBN10(value) {
		return value, true
	}
	return "", false
}
