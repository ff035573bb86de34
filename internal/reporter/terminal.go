package reporter

import (
	"fmt"
	"io"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/rules"
	"github.com/pthm/speclint/internal/ui"
)

// TerminalReporter renders results for humans: exact protocol text when
// piped, styled blocks and a risk badge on a TTY.
type TerminalReporter struct {
	w io.Writer
	u *ui.UI
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter(w io.Writer, u *ui.UI) *TerminalReporter {
	return &TerminalReporter{w: w, u: u}
}

// Report outputs the result
func (r *TerminalReporter) Report(res *analysis.Result) error {
	if r.u.IsInteractive() {
		r.reportStyled(res)
	} else {
		r.reportPlain(res)
	}
	return nil
}

// reportPlain emits the protocol text unchanged so piped consumers can keep
// parsing it, then the risk verdict.
func (r *TerminalReporter) reportPlain(res *analysis.Result) {
	io.WriteString(r.w, res.RawOutput)
	fmt.Fprintf(r.w, "\nRisk: %s\n", res.RiskLevel)
	r.reportStructure(res)
}

func (r *TerminalReporter) reportStyled(res *analysis.Result) {
	st := r.u.Styles

	if len(res.Findings) == 0 {
		fmt.Fprintln(r.w, st.Success.Render(st.IconSuccess+" No issues found"))
	}

	for _, f := range res.Findings {
		header := fmt.Sprintf("[%s][%s][%s]", f.Category, f.Severity, f.Code)
		fmt.Fprintln(r.w, st.Severity(f.Severity).Render(header))
		fmt.Fprintln(r.w, f.Message)
		fmt.Fprintln(r.w, st.Dim.Render("Suggestion: "+f.Suggestion))
		fmt.Fprintln(r.w)
	}

	c := rules.CountBySeverity(res.Findings)
	fmt.Fprintf(r.w, "Total warnings: %d (INFO: %d, WARNING: %d, ERROR: %d, BLOCKER: %d)\n",
		c.Total(), c.Info, c.Warning, c.Error, c.Blocker)

	fmt.Fprintf(r.w, "\n%s\n", st.RiskBadge(res.RiskLevel))
	r.reportStructure(res)
}

func (r *TerminalReporter) reportStructure(res *analysis.Result) {
	if res.Structure == nil {
		return
	}
	score := 0
	if res.QualityScore != nil {
		score = *res.QualityScore
	}
	fmt.Fprintln(r.w)
	io.WriteString(r.w, r.u.RenderStructure(res.Structure, score, res.QualityWarnings))
}
