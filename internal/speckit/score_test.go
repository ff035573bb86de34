package speckit

import (
	"fmt"
	"testing"

	"github.com/pthm/speclint/internal/rules"
	"github.com/pthm/speclint/internal/text"
)

func TestScoreEmptyInput(t *testing.T) {
	doc := text.Normalize("")
	s := Extract(doc)

	got := Score(doc, s, MissingAreas(s), nil)
	if got != EmptyInputScore {
		t.Errorf("Score(empty) = %d, want %d", got, EmptyInputScore)
	}
}

func TestScoreArithmetic(t *testing.T) {
	// base 44 + 3 populated criticals (21) - 2 warnings (6) = 59.
	doc := text.Normalize("task api")
	s := &Structure{
		Features: []string{"sync tasks from the calendar"},
		Entities: []string{"user", "task"},
		Flows:    []string{"create"},
	}

	got := Score(doc, s, []string{"a", "b"}, nil)
	if got != 59 {
		t.Errorf("Score = %d, want 59", got)
	}
}

func TestScoreWarningPenaltyIsCapped(t *testing.T) {
	doc := text.Normalize("")
	warnings := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"}

	// 7 warnings would deduct 21; the cap holds it at 15.
	got := Score(doc, &Structure{}, warnings, nil)
	if got != 29 {
		t.Errorf("Score = %d, want 29 (44 - capped 15)", got)
	}
}

func TestScoreDetailTiers(t *testing.T) {
	doc := text.Normalize("")

	cases := []struct {
		items int
		want  int
	}{
		{5, 51},  // entity bonus only
		{6, 58},  // +7
		{9, 58},  // still first tier
		{10, 65}, // +14
		{15, 71}, // +20
		{40, 71}, // top tier has no further growth
	}
	for _, tc := range cases {
		entities := make([]string, tc.items)
		for i := range entities {
			entities[i] = fmt.Sprintf("entity-%d", i)
		}

		got := Score(doc, &Structure{Entities: entities}, nil, nil)
		if got != tc.want {
			t.Errorf("Score with %d items = %d, want %d", tc.items, got, tc.want)
		}
	}
}

func TestScoreTechTiers(t *testing.T) {
	cases := []struct {
		prompt string
		want   int
	}{
		{"plain prose with no technology names", 44},
		{"uses postgres", 44},               // one hit earns nothing
		{"postgres and postgresql", 44},     // same keyword counts once
		{"postgres and redis", 48},          // +4
		{"postgres redis kafka", 51},        // +7
		{"postgres redis kafka docker", 54}, // +10
		{"postgres redis kafka docker grafana stripe", 54},
	}
	for _, tc := range cases {
		got := Score(text.Normalize(tc.prompt), &Structure{}, nil, nil)
		if got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.prompt, got, tc.want)
		}
	}
}

func TestScoreIndicatorBonuses(t *testing.T) {
	cases := []struct {
		prompt string
		want   int
	}{
		{"run the full test suite", 49},
		{"use structured logging", 48},
		{"add error handling", 48},
		{"have a test suite but skip tests for now", 44},
		{"structured logging is nice but no logging here", 44},
		{"error handling everywhere, then ignore errors", 44},
	}
	for _, tc := range cases {
		got := Score(text.Normalize(tc.prompt), &Structure{}, nil, nil)
		if got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.prompt, got, tc.want)
		}
	}
}

func TestScoreFindingsNegateIndicators(t *testing.T) {
	doc := text.Normalize("ship a test suite")

	if got := Score(doc, &Structure{}, nil, nil); got != 49 {
		t.Fatalf("Score without findings = %d, want 49", got)
	}

	findings := []rules.Finding{{Code: "QUAL_NO_TESTING"}}
	if got := Score(doc, &Structure{}, nil, findings); got != 44 {
		t.Errorf("Score with QUAL_NO_TESTING = %d, want 44 (bonus negated)", got)
	}
}

func TestScoreAllCriticalBonus(t *testing.T) {
	doc := text.Normalize("")
	s := &Structure{
		Features:      []string{"import bank statements nightly"},
		Entities:      []string{"account"},
		Flows:         []string{"login"},
		ErrorHandling: []string{"retry"},
	}

	// Four of five criticals: 44 + 28 = 72.
	if got := Score(doc, s, nil, nil); got != 72 {
		t.Errorf("Score with 4 criticals = %d, want 72", got)
	}

	// The fifth adds its own bonus plus the all-critical bonus.
	s.Testing = []string{"unit tests"}
	if got := Score(doc, s, nil, nil); got != 89 {
		t.Errorf("Score with all criticals = %d, want 89", got)
	}
}

func TestScoreImportantCategories(t *testing.T) {
	doc := text.Normalize("")
	s := &Structure{
		Configuration: []string{"environment variables"},
		Logging:       []string{"metrics"},
	}

	if got := Score(doc, s, nil, nil); got != 52 {
		t.Errorf("Score with 2 importants = %d, want 52 (44 + 8)", got)
	}
}

func TestScoreCeiling(t *testing.T) {
	doc := text.Normalize("postgres redis kafka docker test suite structured logging error handling")
	s := &Structure{
		Features:       []string{"a", "b"},
		Entities:       []string{"a", "b"},
		Flows:          []string{"a", "b"},
		Configuration:  []string{"a", "b"},
		ErrorHandling:  []string{"a", "b"},
		Testing:        []string{"a", "b"},
		Logging:        []string{"a", "b"},
		Authentication: []string{"a", "b"},
		DataStorage:    []string{"a", "b"},
	}

	// Raw sum is 148; the ceiling clamps it.
	if got := Score(doc, s, nil, nil); got != DefaultWeights().Ceiling {
		t.Errorf("Score = %d, want ceiling %d", got, DefaultWeights().Ceiling)
	}
}

func TestScoreFloor(t *testing.T) {
	w := Weights{Base: 5, WarningPenalty: 10, MaxWarningPenalty: 100}
	doc := text.Normalize("")

	if got := w.Score(doc, &Structure{}, []string{"a", "b", "c"}, nil); got != 0 {
		t.Errorf("Score = %d, want 0 (clamped)", got)
	}
}
