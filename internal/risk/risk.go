package risk

import (
	"encoding/json"

	"github.com/pthm/speclint/internal/rules"
)

// Level is the overall risk verdict for an analyzed prompt. It is the single
// authoritative output of the analysis; the quality score never feeds into it.
type Level int

const (
	Low Level = iota
	Medium
	High
)

// DefaultWarningThreshold is the number of WARNING findings at which an
// otherwise clean prompt escalates from Low to Medium. Isolated warnings are
// tolerable on their own; their accumulation signals a systemically
// under-specified prompt that should not read the same as a clean one.
const DefaultWarningThreshold = 3

func (l Level) String() string {
	switch l {
	case High:
		return "High"
	case Medium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalJSON emits the level as its display name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// ExitCode maps the level to the historical process exit code: High is 2,
// Medium is 1, Low is 0.
func (l Level) ExitCode() int {
	switch l {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// Classify derives the risk level from finding severities alone; categories
// never influence the verdict.
//
//	blocker > 0                      -> High
//	else error > 0                   -> Medium
//	else warning >= warningThreshold -> Medium
//	else                             -> Low
//
// A warningThreshold of zero or less falls back to DefaultWarningThreshold.
func Classify(findings []rules.Finding, warningThreshold int) Level {
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}

	counts := rules.CountBySeverity(findings)
	switch {
	case counts.Blocker > 0:
		return High
	case counts.Error > 0:
		return Medium
	case counts.Warning >= warningThreshold:
		return Medium
	default:
		return Low
	}
}
