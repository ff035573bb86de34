package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pthm/speclint/internal/text"
)

// Severity represents the severity level of a finding. The order defines
// escalation precedence: Info < Warning < Error < Blocker.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Blocker
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Blocker:
		return "BLOCKER"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the severity as its uppercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseSeverity converts a severity name (any case) to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return Info, nil
	case "WARNING":
		return Warning, nil
	case "ERROR":
		return Error, nil
	case "BLOCKER":
		return Blocker, nil
	default:
		return Info, fmt.Errorf("unknown severity %q", s)
	}
}

// Category classifies what a rule is about. It is metadata only and never
// affects risk classification.
type Category int

const (
	Security Category = iota
	Arch
	Ambig
	Quality
)

func (c Category) String() string {
	switch c {
	case Security:
		return "SECURITY"
	case Arch:
		return "ARCH"
	case Ambig:
		return "AMBIG"
	case Quality:
		return "QUALITY"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the category as its uppercase name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParseCategory converts a category name (any case) to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SECURITY":
		return Security, nil
	case "ARCH", "ARCHITECTURE":
		return Arch, nil
	case "AMBIG", "AMBIGUITY":
		return Ambig, nil
	case "QUALITY":
		return Quality, nil
	default:
		return Security, fmt.Errorf("unknown category %q", s)
	}
}

// Predicate tests a normalized document. Predicates must be pure; a
// panicking predicate skips only its own rule.
type Predicate func(doc *text.Document) bool

// Rule is one declarative entry in the table. A rule fires when Match is
// true and Unless (if set) is false. Rules sharing a non-empty Group are
// mutually exclusive: the first matching rule in table order fires and
// suppresses the rest of the group.
type Rule struct {
	Code       string
	Category   Category
	Severity   Severity
	Group      string
	Message    string
	Suggestion string
	Match      Predicate
	Unless     Predicate
}

// Finding is one detected issue, produced by one firing rule.
type Finding struct {
	Code       string   `json:"code"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// Table is an ordered rule list. Order defines evaluation order and, within
// a group, priority (most specific first).
type Table []Rule

// Validate checks table invariants: non-empty unique codes and a Match
// predicate on every rule.
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t))
	for i := range t {
		r := &t[i]
		if r.Code == "" {
			return fmt.Errorf("rule at index %d has no code", i)
		}
		if seen[r.Code] {
			return fmt.Errorf("duplicate rule code %s", r.Code)
		}
		seen[r.Code] = true
		if r.Match == nil {
			return fmt.Errorf("rule %s has no match predicate", r.Code)
		}
	}
	return nil
}

// Without returns a copy of the table with the given rule codes removed.
func (t Table) Without(codes ...string) Table {
	if len(codes) == 0 {
		return t
	}
	drop := make(map[string]bool, len(codes))
	for _, c := range codes {
		drop[c] = true
	}
	out := make(Table, 0, len(t))
	for _, r := range t {
		if !drop[r.Code] {
			out = append(out, r)
		}
	}
	return out
}

// Codes returns the rule codes in table order.
func (t Table) Codes() []string {
	codes := make([]string, len(t))
	for i := range t {
		codes[i] = t[i].Code
	}
	return codes
}
