package isbn

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// RangeTableSource supplies registration groups to NewRangeTable.
type RangeTableSource interface {
	RegistrationGroups() ([]RegistrationGroup, error)
}

// RegistrationGroup is one <Group> (or <EAN.UCC>) entry of a range message.
type RegistrationGroup struct {
	Prefix string // e.g. "978-0"
	Agency string
	Rules  []RangeRule
}

// RangeRule is a raw <Rule>: a range such as "0000000-1999999" and the
// number of leading digits that apply. A Length of 0 marks an unused range.
type RangeRule struct {
	Range  string
	Length int
}

// StaticSource is an in-memory RangeTableSource.
type StaticSource []RegistrationGroup

// RegistrationGroups implements RangeTableSource.
func (s StaticSource) RegistrationGroups() ([]RegistrationGroup, error) {
	return s, nil
}

// RangeMessage is the content of an ISBNRangeMessage document as published by
// the International ISBN Agency.
type RangeMessage struct {
	Source       string
	SerialNumber string
	Date         string

	// Prefixes lists the EAN.UCC prefixes (978, 979) with the ranges of
	// registration groups allocated under them.
	Prefixes []RegistrationGroup

	// Groups lists the registration groups with their registrant ranges.
	Groups []RegistrationGroup
}

// RegistrationGroups implements RangeTableSource.
func (m *RangeMessage) RegistrationGroups() ([]RegistrationGroup, error) {
	return m.Groups, nil
}

// LoadRangeMessage reads and parses a RangeMessage.xml file.
func LoadRangeMessage(path string) (*RangeMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open range message: %w", err)
	}
	defer f.Close()

	msg, err := ParseRangeMessage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

// ParseRangeMessage parses an ISBNRangeMessage document.
func ParseRangeMessage(r io.Reader) (*RangeMessage, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse range message: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "ISBNRangeMessage" {
		return nil, fmt.Errorf("malformed range message: missing ISBNRangeMessage root")
	}

	msg := &RangeMessage{}
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "MessageSource":
			msg.Source = strings.TrimSpace(el.Text())
		case "MessageSerialNumber":
			msg.SerialNumber = strings.TrimSpace(el.Text())
		case "MessageDate":
			msg.Date = strings.TrimSpace(el.Text())
		case "EAN.UCCPrefixes":
			groups, err := parseGroups(el, kindEANUCC)
			if err != nil {
				return nil, err
			}
			msg.Prefixes = groups
		case "RegistrationGroups":
			groups, err := parseGroups(el, kindGroup)
			if err != nil {
				return nil, err
			}
			msg.Groups = groups
		}
	}
	return msg, nil
}

// groupKind tells which element a prefix/agency/rules block belongs to.
type groupKind int

const (
	kindEANUCC groupKind = iota
	kindGroup
)

func (k groupKind) element() string {
	if k == kindEANUCC {
		return "EAN.UCC"
	}
	return "Group"
}

func parseGroups(list *etree.Element, kind groupKind) ([]RegistrationGroup, error) {
	var groups []RegistrationGroup
	for _, el := range list.ChildElements() {
		if el.Tag != kind.element() {
			continue
		}
		g, err := parseGroup(el)
		if err != nil {
			return nil, fmt.Errorf("malformed %s: %w", kind.element(), err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func parseGroup(el *etree.Element) (RegistrationGroup, error) {
	var g RegistrationGroup
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Prefix":
			g.Prefix = strings.TrimSpace(child.Text())
		case "Agency":
			g.Agency = strings.TrimSpace(child.Text())
		case "Rules":
			for _, rule := range child.ChildElements() {
				if rule.Tag != "Rule" {
					continue
				}
				rr, err := parseRule(rule)
				if err != nil {
					return g, fmt.Errorf("prefix %s: %w", g.Prefix, err)
				}
				g.Rules = append(g.Rules, rr)
			}
		}
	}
	if g.Prefix == "" {
		return g, fmt.Errorf("missing Prefix")
	}
	return g, nil
}

func parseRule(el *etree.Element) (RangeRule, error) {
	var rr RangeRule
	var length string
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Range":
			rr.Range = strings.TrimSpace(child.Text())
		case "Length":
			length = strings.TrimSpace(child.Text())
		}
	}
	n, err := strconv.Atoi(length)
	if err != nil {
		return rr, fmt.Errorf("rule %q: invalid length %q", rr.Range, length)
	}
	rr.Length = n
	return rr, nil
}
