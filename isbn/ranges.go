package isbn

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MaxGroupLength is the longest registration group the formatter probes for.
const MaxGroupLength = 7

// Rule is one registrant range of a registration group: registrant elements
// of Length digits whose value lies within [Min, Max].
type Rule struct {
	Length int
	Min    int
	Max    int
}

// Contains reports whether v falls inside the rule's inclusive bounds.
func (r Rule) Contains(v int) bool {
	return r.Min <= v && v <= r.Max
}

type rangeGroup struct {
	agency string
	rules  []Rule
}

// RangeTable maps registration group prefixes ("9780", "97910", ...) to their
// registrant ranges. It is immutable once built and safe for concurrent use.
type RangeTable struct {
	info   MessageInfo
	groups map[string]rangeGroup
}

// MessageInfo identifies the range message a table was built from.
type MessageInfo struct {
	Source       string
	SerialNumber string
	Date         string
}

// NewRangeTable builds a table from src, which must hold at least one
// registration group. Rules with a length of 0 mark ranges that are not in
// use and are left out; a group whose rules are all unused is kept with an
// empty rule list.
func NewRangeTable(src RangeTableSource) (*RangeTable, error) {
	groups, err := src.RegistrationGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to read registration groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("range table source has no registration groups")
	}

	t := &RangeTable{groups: make(map[string]rangeGroup, len(groups))}
	if m, ok := src.(*RangeMessage); ok {
		t.info = MessageInfo{Source: m.Source, SerialNumber: m.SerialNumber, Date: m.Date}
	}

	for _, g := range groups {
		prefix := strings.ReplaceAll(strings.TrimSpace(g.Prefix), "-", "")
		if prefix == "" || !allDigits(prefix) {
			return nil, fmt.Errorf("invalid registration group prefix %q", g.Prefix)
		}
		rules := make([]Rule, 0, len(g.Rules))
		for _, rr := range g.Rules {
			r, skip, err := rr.rule()
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", g.Prefix, err)
			}
			if !skip {
				rules = append(rules, r)
			}
		}
		t.groups[prefix] = rangeGroup{agency: g.Agency, rules: rules}
	}
	return t, nil
}

// rule converts the textual "NNNNNNN-MMMMMMM" range to numeric bounds using
// the leading Length digits of each end.
func (rr RangeRule) rule() (Rule, bool, error) {
	if rr.Length == 0 {
		return Rule{}, true, nil
	}
	if rr.Length < 0 || rr.Length > MaxGroupLength {
		return Rule{}, false, fmt.Errorf("rule %q: length %d out of range", rr.Range, rr.Length)
	}
	lo, hi, ok := strings.Cut(strings.TrimSpace(rr.Range), "-")
	if !ok || len(lo) < rr.Length || len(hi) < rr.Length {
		return Rule{}, false, fmt.Errorf("rule %q: malformed range", rr.Range)
	}
	lower, err := strconv.Atoi(lo[:rr.Length])
	if err != nil {
		return Rule{}, false, fmt.Errorf("rule %q: %w", rr.Range, err)
	}
	upper, err := strconv.Atoi(hi[:rr.Length])
	if err != nil {
		return Rule{}, false, fmt.Errorf("rule %q: %w", rr.Range, err)
	}
	return Rule{Length: rr.Length, Min: lower, Max: upper}, false, nil
}

// Lookup returns the rules of a prefix. The boolean is false when the prefix
// is not a registration group; an empty rule list with true means the group
// is not subdivided.
func (t *RangeTable) Lookup(prefix string) ([]Rule, bool) {
	g, ok := t.groups[prefix]
	if !ok {
		return nil, false
	}
	return g.rules, true
}

// Agency returns the agency name of a registration group, or "".
func (t *RangeTable) Agency(prefix string) string {
	return t.groups[prefix].agency
}

// Len returns the number of registration groups.
func (t *RangeTable) Len() int { return len(t.groups) }

// Prefixes returns all registration group prefixes in ascending order.
func (t *RangeTable) Prefixes() []string {
	out := make([]string, 0, len(t.groups))
	for p := range t.groups {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Info describes the range message the table was built from. It is empty for
// tables built from other sources.
func (t *RangeTable) Info() MessageInfo { return t.info }

//go:embed data/RangeMessage.xml
var bundledRangeMessage []byte

var defaultRangeTable = newBundledRangeTable()

// newBundledRangeTable returns a loader that parses the bundled range message
// on its first call and hands every caller the same table afterwards.
func newBundledRangeTable() func() (*RangeTable, error) {
	return sync.OnceValues(loadBundledRangeTable)
}

func loadBundledRangeTable() (*RangeTable, error) {
	msg, err := ParseRangeMessage(bytes.NewReader(bundledRangeMessage))
	if err != nil {
		return nil, fmt.Errorf("bundled range message: %w", err)
	}
	return NewRangeTable(msg)
}

// DefaultRangeTable returns the table built from the bundled range message.
// It is built on first use, exactly once, and shared by all callers.
func DefaultRangeTable() (*RangeTable, error) {
	return defaultRangeTable()
}
