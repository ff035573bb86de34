package speckit

import (
	"regexp"
	"strings"

	"github.com/pthm/speclint/internal/rules"
	"github.com/pthm/speclint/internal/text"
)

// Weights holds the tunable constants of the quality score. The numbers were
// tuned against a fixed fixture set; treat them as calibration data, not
// semantics. DefaultWeights returns the tuned values.
type Weights struct {
	// Base is the starting score before any bonus or penalty.
	Base int

	// CriticalBonus is added per populated critical category (features,
	// entities, flows, error handling, testing); ImportantBonus per
	// populated important category (configuration, logging, authentication,
	// data storage).
	CriticalBonus  int
	ImportantBonus int

	// AllCriticalBonus is added once when every critical category is
	// populated.
	AllCriticalBonus int

	// WarningPenalty is subtracted per quality warning, capped at
	// MaxWarningPenalty in total.
	WarningPenalty    int
	MaxWarningPenalty int

	// Detail tiers reward total item count across all categories. The
	// highest applicable tier wins; tiers are mutually exclusive.
	DetailTier1Items, DetailTier1Bonus int
	DetailTier2Items, DetailTier2Bonus int
	DetailTier3Items, DetailTier3Bonus int

	// Tech tiers reward distinct matches against the curated technology
	// list.
	TechTier1Hits, TechTier1Bonus int
	TechTier2Hits, TechTier2Bonus int
	TechTier3Hits, TechTier3Bonus int

	// Indicator bonuses for explicit process mentions in the text.
	TestSuiteBonus     int
	LoggingDetailBonus int
	ErrorHandlingBonus int

	// Ceiling is the deliberate sub-100 maximum: extraction is heuristic,
	// so no prompt ever reads as perfect.
	Ceiling int
}

// DefaultWeights returns the tuned score constants.
func DefaultWeights() Weights {
	return Weights{
		Base:              44,
		CriticalBonus:     7,
		ImportantBonus:    4,
		AllCriticalBonus:  10,
		WarningPenalty:    3,
		MaxWarningPenalty: 15,
		DetailTier1Items:  6, DetailTier1Bonus: 7,
		DetailTier2Items: 10, DetailTier2Bonus: 14,
		DetailTier3Items: 15, DetailTier3Bonus: 20,
		TechTier1Hits: 2, TechTier1Bonus: 4,
		TechTier2Hits: 3, TechTier2Bonus: 7,
		TechTier3Hits: 4, TechTier3Bonus: 10,
		TestSuiteBonus:     5,
		LoggingDetailBonus: 4,
		ErrorHandlingBonus: 4,
		Ceiling:            95,
	}
}

// EmptyInputScore is the documented floor: an all-empty structure carries
// every critical-gap warning, so the score lands at Base minus the full
// warning deduction.
const EmptyInputScore = 29

// techKeywords is the curated list of specific technology terms that earn
// the precision bonus. Near-universal terms (jwt, bcrypt, https) are
// deliberately excluded: they appear in almost every prompt and reward
// nothing. Each entry counts once no matter how often it matches.
var techKeywords = []*regexp.Regexp{
	regexp.MustCompile(`\bpostgres(?:ql)?\b`),
	regexp.MustCompile(`\bmysql\b`),
	regexp.MustCompile(`\bmongodb\b`),
	regexp.MustCompile(`\bsqlite\b`),
	regexp.MustCompile(`\bredis\b`),
	regexp.MustCompile(`\bkafka\b`),
	regexp.MustCompile(`\brabbitmq\b`),
	regexp.MustCompile(`\belasticsearch\b`),
	regexp.MustCompile(`\bgraphql\b`),
	regexp.MustCompile(`\bgrpc\b`),
	regexp.MustCompile(`\bwebsockets?\b`),
	regexp.MustCompile(`\bdocker\b`),
	regexp.MustCompile(`\bkubernetes\b`),
	regexp.MustCompile(`\bprometheus\b`),
	regexp.MustCompile(`\bgrafana\b`),
	regexp.MustCompile(`\bstripe\b`),
	regexp.MustCompile(`\bopenapi\b`),
	regexp.MustCompile(`\bterraform\b`),
	regexp.MustCompile(`\bnginx\b`),
}

// Indicator phrase lists. Each indicator has its own negation set so "skip
// tests" never earns the test-suite bonus.
var (
	testSuitePhrases = []string{
		"test suite", "unit test", "integration test", "end-to-end test",
		"e2e test", "test coverage", "test plan", "tdd",
	}
	testNegations = []string{
		"skip test", "no tests", "no testing", "without tests",
		"don't write tests", "do not write tests", "tests later",
	}

	loggingDetailPhrases = []string{
		"structured logging", "detailed logging", "log level", "log levels",
		"audit log", "centralized logging", "json logs", "request logging",
	}
	loggingNegations = []string{
		"no logging", "skip logging", "without logging", "don't log",
	}

	errorHandlingPhrases = []string{
		"error handling", "exception handling", "handle errors",
		"error responses", "graceful degradation", "graceful shutdown",
		"fallback", "retry", "retries",
	}
	errorNegations = []string{
		"no error handling", "skip error handling", "without error handling",
		"ignore errors",
	}
)

// Score computes the completeness score with the default weights.
func Score(doc *text.Document, s *Structure, warnings []string, findings []rules.Finding) int {
	return DefaultWeights().Score(doc, s, warnings, findings)
}

// Score combines the extracted structure, its quality warnings, and the
// prompt text into a bounded completeness score. It is descriptive only: it
// never influences findings or the risk level. The findings argument is
// optional (nil allowed) and is consulted only to negate indicator bonuses
// already contradicted by a quality-gap finding.
func (w Weights) Score(doc *text.Document, s *Structure, warnings []string, findings []rules.Finding) int {
	score := w.Base

	critical := [][]string{s.Features, s.Entities, s.Flows, s.ErrorHandling, s.Testing}
	important := [][]string{s.Configuration, s.Logging, s.Authentication, s.DataStorage}

	allCritical := true
	for _, list := range critical {
		if len(list) > 0 {
			score += w.CriticalBonus
		} else {
			allCritical = false
		}
	}
	for _, list := range important {
		if len(list) > 0 {
			score += w.ImportantBonus
		}
	}
	if allCritical {
		score += w.AllCriticalBonus
	}

	deduction := len(warnings) * w.WarningPenalty
	if deduction > w.MaxWarningPenalty {
		deduction = w.MaxWarningPenalty
	}
	score -= deduction

	switch total := s.TotalItems(); {
	case total >= w.DetailTier3Items:
		score += w.DetailTier3Bonus
	case total >= w.DetailTier2Items:
		score += w.DetailTier2Bonus
	case total >= w.DetailTier1Items:
		score += w.DetailTier1Bonus
	}

	switch hits := countTechKeywords(doc.Norm); {
	case hits >= w.TechTier3Hits:
		score += w.TechTier3Bonus
	case hits >= w.TechTier2Hits:
		score += w.TechTier2Bonus
	case hits >= w.TechTier1Hits:
		score += w.TechTier1Bonus
	}

	if indicator(doc.Norm, testSuitePhrases, testNegations) && !hasCode(findings, "QUAL_NO_TESTING") {
		score += w.TestSuiteBonus
	}
	if indicator(doc.Norm, loggingDetailPhrases, loggingNegations) && !hasCode(findings, "QUAL_NO_LOGGING") {
		score += w.LoggingDetailBonus
	}
	if indicator(doc.Norm, errorHandlingPhrases, errorNegations) && !hasCode(findings, "QUAL_NO_ERROR_HANDLING") {
		score += w.ErrorHandlingBonus
	}

	if score > w.Ceiling {
		score = w.Ceiling
	}
	if score < 0 {
		score = 0
	}
	return score
}

func countTechKeywords(norm string) int {
	hits := 0
	for _, re := range techKeywords {
		if re.MatchString(norm) {
			hits++
		}
	}
	return hits
}

// indicator is true when any positive phrase appears and no negation does.
func indicator(norm string, phrases, negations []string) bool {
	matched := false
	for _, p := range phrases {
		if strings.Contains(norm, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, n := range negations {
		if strings.Contains(norm, n) {
			return false
		}
	}
	return true
}

func hasCode(findings []rules.Finding, code string) bool {
	for _, f := range findings {
		if f.Code == code {
			return true
		}
	}
	return false
}
