package rules

import (
	"log/slog"

	"github.com/pthm/speclint/internal/text"
)

// Engine evaluates a rule table against normalized prompts. It holds no
// mutable state between calls; the same document always yields the same
// finding list in the same order.
type Engine struct {
	table  Table
	logger *slog.Logger
}

// NewEngine builds an engine over the given table. A nil logger falls back
// to slog.Default.
func NewEngine(table Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{table: table, logger: logger}
}

// Table returns the engine's rule table.
func (e *Engine) Table() Table {
	return e.table
}

// Evaluate runs every rule in table order. Grouped rules are first-match
// wins: once a rule in a group fires, the rest of the group is skipped. A
// rule whose predicate panics is skipped (its group stays open) and the
// failure is logged; evaluation always completes.
func (e *Engine) Evaluate(doc *text.Document) []Finding {
	var findings []Finding
	fired := make(map[string]bool)

	for i := range e.table {
		rule := &e.table[i]
		if rule.Group != "" && fired[rule.Group] {
			continue
		}

		matched, ok := e.eval(rule, doc)
		if !ok || !matched {
			continue
		}

		findings = append(findings, Finding{
			Code:       rule.Code,
			Category:   rule.Category,
			Severity:   rule.Severity,
			Message:    rule.Message,
			Suggestion: rule.Suggestion,
		})
		if rule.Group != "" {
			fired[rule.Group] = true
		}
	}

	return findings
}

// eval runs one rule's predicates. ok is false when a predicate panicked;
// the rule is then treated as not evaluated rather than not matched.
func (e *Engine) eval(rule *Rule, doc *text.Document) (matched, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("rule predicate failed, skipping rule",
				"rule", rule.Code,
				"panic", r,
			)
			matched, ok = false, false
		}
	}()

	if rule.Match == nil || !rule.Match(doc) {
		return false, true
	}
	if rule.Unless != nil && rule.Unless(doc) {
		return false, true
	}
	return true, true
}
