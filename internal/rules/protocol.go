package rules

import (
	"fmt"
	"strings"
)

// SeverityCounts holds finding counts per severity level.
type SeverityCounts struct {
	Info    int
	Warning int
	Error   int
	Blocker int
}

// Total returns the total finding count.
func (c SeverityCounts) Total() int {
	return c.Info + c.Warning + c.Error + c.Blocker
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case Info:
			c.Info++
		case Warning:
			c.Warning++
		case Error:
			c.Error++
		case Blocker:
			c.Blocker++
		}
	}
	return c
}

// Protocol renders findings in the historical line-oriented format that
// existing collaborators parse:
//
//	[<CATEGORY>][<SEVERITY>][<CODE>]
//	<message>
//	Suggestion: <suggestion>
//
// one block per finding, blank line between blocks, then a summary line:
//
//	Total warnings: <N> (INFO: a, WARNING: b, ERROR: c, BLOCKER: d)
//
// With zero findings only the summary line is emitted.
func Protocol(findings []Finding) string {
	var b strings.Builder

	for _, f := range findings {
		fmt.Fprintf(&b, "[%s][%s][%s]\n", f.Category, f.Severity, f.Code)
		b.WriteString(f.Message)
		b.WriteByte('\n')
		fmt.Fprintf(&b, "Suggestion: %s\n", f.Suggestion)
		b.WriteByte('\n')
	}

	c := CountBySeverity(findings)
	fmt.Fprintf(&b, "Total warnings: %d (INFO: %d, WARNING: %d, ERROR: %d, BLOCKER: %d)\n",
		c.Total(), c.Info, c.Warning, c.Error, c.Blocker)

	return b.String()
}
