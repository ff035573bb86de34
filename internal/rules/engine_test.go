package rules

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/pthm/speclint/internal/text"
)

func quietEngine(table Table) *Engine {
	return NewEngine(table, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func alwaysMatch(*text.Document) bool { return true }
func neverMatch(*text.Document) bool  { return false }
func panicMatch(*text.Document) bool  { panic("bad predicate") }

func TestGroupFirstMatchWins(t *testing.T) {
	table := Table{
		{Code: "A", Group: "g", Severity: Blocker, Match: alwaysMatch},
		{Code: "B", Group: "g", Severity: Error, Match: alwaysMatch},
		{Code: "C", Severity: Warning, Match: alwaysMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	codes := findingCodes(findings)
	want := []string{"A", "C"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
}

func TestGroupFallsThroughToLaterRule(t *testing.T) {
	table := Table{
		{Code: "A", Group: "g", Match: neverMatch},
		{Code: "B", Group: "g", Match: alwaysMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	if len(findings) != 1 || findings[0].Code != "B" {
		t.Errorf("findings = %v, want only B", findingCodes(findings))
	}
}

func TestUnlessSuppressesMatch(t *testing.T) {
	table := Table{
		{Code: "A", Match: alwaysMatch, Unless: alwaysMatch},
		{Code: "B", Match: alwaysMatch, Unless: neverMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	if len(findings) != 1 || findings[0].Code != "B" {
		t.Errorf("findings = %v, want only B", findingCodes(findings))
	}
}

func TestPanickingPredicateIsContained(t *testing.T) {
	table := Table{
		{Code: "BAD", Match: panicMatch},
		{Code: "GOOD", Match: alwaysMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	if len(findings) != 1 || findings[0].Code != "GOOD" {
		t.Errorf("findings = %v, want only GOOD", findingCodes(findings))
	}
}

func TestPanickingGroupRuleLeavesGroupOpen(t *testing.T) {
	table := Table{
		{Code: "BAD", Group: "g", Match: panicMatch},
		{Code: "GOOD", Group: "g", Match: alwaysMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	if len(findings) != 1 || findings[0].Code != "GOOD" {
		t.Errorf("findings = %v, want GOOD to fire after BAD panics", findingCodes(findings))
	}
}

func TestPanickingUnlessIsContained(t *testing.T) {
	table := Table{
		{Code: "A", Match: alwaysMatch, Unless: panicMatch},
		{Code: "B", Match: alwaysMatch},
	}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	if len(findings) != 1 || findings[0].Code != "B" {
		t.Errorf("findings = %v, want only B", findingCodes(findings))
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := quietEngine(DefaultTable())
	doc := text.Normalize("log the email and password over http without auth, store stuff in a database")

	first := engine.Evaluate(doc)
	second := engine.Evaluate(doc)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs:\nfirst:  %v\nsecond: %v",
			findingCodes(first), findingCodes(second))
	}
}

func TestFindingCarriesRuleFields(t *testing.T) {
	table := Table{{
		Code:       "X",
		Category:   Arch,
		Severity:   Error,
		Message:    "msg",
		Suggestion: "fix it",
		Match:      alwaysMatch,
	}}

	findings := quietEngine(table).Evaluate(text.Normalize("anything"))

	want := Finding{Code: "X", Category: Arch, Severity: Error, Message: "msg", Suggestion: "fix it"}
	if len(findings) != 1 || findings[0] != want {
		t.Errorf("finding = %+v, want %+v", findings, want)
	}
}

func TestTableValidate(t *testing.T) {
	valid := Table{
		{Code: "A", Match: alwaysMatch},
		{Code: "B", Match: alwaysMatch},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid table rejected: %v", err)
	}

	dup := Table{
		{Code: "A", Match: alwaysMatch},
		{Code: "A", Match: alwaysMatch},
	}
	if err := dup.Validate(); err == nil {
		t.Error("duplicate codes should be rejected")
	}

	noMatch := Table{{Code: "A"}}
	if err := noMatch.Validate(); err == nil {
		t.Error("rule without match predicate should be rejected")
	}

	noCode := Table{{Match: alwaysMatch}}
	if err := noCode.Validate(); err == nil {
		t.Error("rule without code should be rejected")
	}
}

func TestDefaultTableValidates(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Errorf("default table invalid: %v", err)
	}
}

func TestTableWithout(t *testing.T) {
	table := Table{
		{Code: "A", Match: alwaysMatch},
		{Code: "B", Match: alwaysMatch},
		{Code: "C", Match: alwaysMatch},
	}

	got := table.Without("B").Codes()
	want := []string{"A", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Without(B) codes = %v, want %v", got, want)
	}

	if len(table.Without()) != len(table) {
		t.Error("Without() should keep all rules")
	}
}

func TestProtocolFormat(t *testing.T) {
	findings := []Finding{
		{Code: "SEC_X", Category: Security, Severity: Blocker, Message: "bad thing", Suggestion: "do better"},
		{Code: "QUAL_Y", Category: Quality, Severity: Warning, Message: "meh thing", Suggestion: "tidy up"},
	}

	got := Protocol(findings)
	want := "[SECURITY][BLOCKER][SEC_X]\n" +
		"bad thing\n" +
		"Suggestion: do better\n" +
		"\n" +
		"[QUALITY][WARNING][QUAL_Y]\n" +
		"meh thing\n" +
		"Suggestion: tidy up\n" +
		"\n" +
		"Total warnings: 2 (INFO: 0, WARNING: 1, ERROR: 0, BLOCKER: 1)\n"

	if got != want {
		t.Errorf("Protocol output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestProtocolEmpty(t *testing.T) {
	got := Protocol(nil)
	want := "Total warnings: 0 (INFO: 0, WARNING: 0, ERROR: 0, BLOCKER: 0)\n"
	if got != want {
		t.Errorf("Protocol(nil) = %q, want %q", got, want)
	}
}

func TestCountBySeverity(t *testing.T) {
	findings := []Finding{
		{Severity: Info},
		{Severity: Warning},
		{Severity: Warning},
		{Severity: Error},
		{Severity: Blocker},
	}

	c := CountBySeverity(findings)
	if c.Info != 1 || c.Warning != 2 || c.Error != 1 || c.Blocker != 1 {
		t.Errorf("counts = %+v", c)
	}
	if c.Total() != 5 {
		t.Errorf("Total = %d, want 5", c.Total())
	}
}

func TestSeverityAndCategoryStrings(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{Info.String(), "INFO"},
		{Warning.String(), "WARNING"},
		{Error.String(), "ERROR"},
		{Blocker.String(), "BLOCKER"},
		{Security.String(), "SECURITY"},
		{Arch.String(), "ARCH"},
		{Ambig.String(), "AMBIG"},
		{Quality.String(), "QUALITY"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("String() = %q, want %q", c.got, c.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("blocker"); err != nil || s != Blocker {
		t.Errorf("ParseSeverity(blocker) = %v, %v", s, err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("ParseSeverity(fatal) should fail")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("quality"); err != nil || c != Quality {
		t.Errorf("ParseCategory(quality) = %v, %v", c, err)
	}
	if _, err := ParseCategory("misc"); err == nil {
		t.Error("ParseCategory(misc) should fail")
	}
}

func findingCodes(findings []Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func hasCode(findings []Finding, code string) bool {
	for _, f := range findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

func severityOf(t *testing.T, findings []Finding, code string) Severity {
	t.Helper()
	for _, f := range findings {
		if f.Code == code {
			return f.Severity
		}
	}
	t.Fatalf("finding %s not present in %v", code, findingCodes(findings))
	return Info
}
