package risk

import (
	"encoding/json"
	"testing"

	"github.com/pthm/speclint/internal/rules"
)

func findingsWith(blockers, errors, warnings, infos int) []rules.Finding {
	var findings []rules.Finding
	for i := 0; i < blockers; i++ {
		findings = append(findings, rules.Finding{Severity: rules.Blocker})
	}
	for i := 0; i < errors; i++ {
		findings = append(findings, rules.Finding{Severity: rules.Error})
	}
	for i := 0; i < warnings; i++ {
		findings = append(findings, rules.Finding{Severity: rules.Warning})
	}
	for i := 0; i < infos; i++ {
		findings = append(findings, rules.Finding{Severity: rules.Info})
	}
	return findings
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		blockers int
		errors   int
		warnings int
		infos    int
		want     Level
	}{
		{"no findings", 0, 0, 0, 0, Low},
		{"info only", 0, 0, 0, 5, Low},
		{"one warning", 0, 0, 1, 0, Low},
		{"two warnings", 0, 0, 2, 0, Low},
		{"three warnings escalate", 0, 0, 3, 0, Medium},
		{"many warnings", 0, 0, 10, 0, Medium},
		{"one error", 0, 1, 0, 0, Medium},
		{"error outranks warnings", 0, 1, 5, 0, Medium},
		{"one blocker", 1, 0, 0, 0, High},
		{"blocker outranks everything", 1, 3, 3, 3, High},
		{"infos never escalate", 0, 0, 2, 50, Low},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			findings := findingsWith(tc.blockers, tc.errors, tc.warnings, tc.infos)
			if got := Classify(findings, DefaultWarningThreshold); got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyCustomThreshold(t *testing.T) {
	two := findingsWith(0, 0, 2, 0)

	if got := Classify(two, 2); got != Medium {
		t.Errorf("Classify(2 warnings, threshold 2) = %v, want Medium", got)
	}
	if got := Classify(two, 5); got != Low {
		t.Errorf("Classify(2 warnings, threshold 5) = %v, want Low", got)
	}
}

func TestClassifyZeroThresholdFallsBack(t *testing.T) {
	two := findingsWith(0, 0, 2, 0)
	three := findingsWith(0, 0, 3, 0)

	if got := Classify(two, 0); got != Low {
		t.Errorf("Classify(2 warnings, threshold 0) = %v, want Low via default threshold", got)
	}
	if got := Classify(three, 0); got != Medium {
		t.Errorf("Classify(3 warnings, threshold 0) = %v, want Medium via default threshold", got)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		level Level
		want  int
	}{
		{Low, 0},
		{Medium, 1},
		{High, 2},
	}
	for _, tc := range cases {
		if got := tc.level.ExitCode(); got != tc.want {
			t.Errorf("%v.ExitCode() = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{Low, "Low"},
		{Medium, "Medium"},
		{High, "High"},
	}
	for _, tc := range cases {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestLevelMarshalJSON(t *testing.T) {
	data, err := json.Marshal(High)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"High"` {
		t.Errorf("Marshal(High) = %s, want %q", data, `"High"`)
	}
}
