// Package analysis joins the rule engine, risk classification, guidance,
// and structure extraction into a single Analyze call. It is the only
// surface the CLI and HTTP layers talk to.
package analysis

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm/speclint/internal/guidance"
	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/rules"
	"github.com/pthm/speclint/internal/speckit"
	"github.com/pthm/speclint/internal/text"
)

// Result is the full outcome of one analysis. The JSON shape is the API
// response contract; the structure and quality fields stay null unless
// structure extraction was requested.
type Result struct {
	OriginalPrompt   string             `json:"original_prompt"`
	NormalizedPrompt string             `json:"normalized_prompt"`
	RawOutput        string             `json:"devspec_raw_output"`
	Findings         []rules.Finding    `json:"devspec_findings"`
	Guidance         []guidance.Item    `json:"guidance"`
	CuratedPrompt    string             `json:"final_curated_prompt"`
	ClaudeOutput     *string            `json:"claude_output"`
	ExitCode         int                `json:"exit_code"`
	HasBlockers      bool               `json:"has_blockers"`
	HasErrors        bool               `json:"has_errors"`
	RiskLevel        risk.Level         `json:"risk_level"`
	Structure        *speckit.Structure `json:"spec_kit_structure"`
	QualityScore     *int               `json:"spec_quality_score"`
	QualityWarnings  []string           `json:"spec_quality_warnings"`
}

// Options selects per-call extras.
type Options struct {
	// IncludeStructure also runs structure extraction and quality scoring
	// and populates the three nullable result fields.
	IncludeStructure bool
}

// Analyzer is a reusable, stateless prompt analyzer. Safe for concurrent
// use: every Analyze call builds its result from scratch.
type Analyzer struct {
	table     rules.Table
	engine    *rules.Engine
	threshold int
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTable replaces the default rule table.
func WithTable(table rules.Table) Option {
	return func(a *Analyzer) { a.table = table }
}

// WithWarningThreshold overrides the warning count at which risk escalates
// to Medium. Values below 1 keep the default.
func WithWarningThreshold(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.threshold = n
		}
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an Analyzer with the default table and threshold unless
// options say otherwise.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		table:     rules.DefaultTable(),
		threshold: risk.DefaultWarningThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.engine = rules.NewEngine(a.table, a.logger)
	return a
}

// WarningThreshold returns the configured escalation threshold.
func (a *Analyzer) WarningThreshold() int {
	return a.threshold
}

// Analyze runs the full pipeline over one prompt. Empty input is valid and
// yields a clean Low-risk result. The error is non-nil only on an
// engine-wide bug; callers treat it as a fatal configuration problem, never
// a per-prompt condition.
func (a *Analyzer) Analyze(prompt string, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis aborted", "panic", r)
			res, err = nil, fmt.Errorf("analysis engine failure: %v", r)
		}
	}()

	doc := text.Normalize(prompt)
	findings := a.engine.Evaluate(doc)
	if findings == nil {
		findings = []rules.Finding{}
	}

	level := risk.Classify(findings, a.threshold)
	counts := rules.CountBySeverity(findings)
	items, curated := guidance.Build(strings.TrimSpace(prompt), findings, a.threshold)

	res = &Result{
		OriginalPrompt:   prompt,
		NormalizedPrompt: doc.Norm,
		RawOutput:        rules.Protocol(findings),
		Findings:         findings,
		Guidance:         items,
		CuratedPrompt:    curated,
		ExitCode:         level.ExitCode(),
		HasBlockers:      counts.Blocker > 0,
		HasErrors:        counts.Error > 0,
		RiskLevel:        level,
	}

	if opts.IncludeStructure {
		s := speckit.Extract(doc)
		warnings := speckit.MissingAreas(s)
		score := speckit.Score(doc, s, warnings, findings)
		res.Structure = s
		res.QualityScore = &score
		res.QualityWarnings = warnings
	}

	a.logger.Debug("prompt analyzed",
		"findings", len(findings),
		"risk", level.String(),
		"structure", opts.IncludeStructure,
	)
	return res, nil
}
