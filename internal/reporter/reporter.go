package reporter

import (
	"github.com/pthm/speclint/internal/analysis"
)

// Reporter defines the interface for outputting analysis results
type Reporter interface {
	// Report outputs one analysis result
	Report(res *analysis.Result) error
}
