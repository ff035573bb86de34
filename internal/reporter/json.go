package reporter

import (
	"encoding/json"
	"io"

	"github.com/pthm/speclint/internal/analysis"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// Report outputs the full result as indented JSON
func (r *JSONReporter) Report(res *analysis.Result) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res)
}
