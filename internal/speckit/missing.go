package speckit

import (
	"fmt"
	"strings"
)

// Gap descriptions for empty critical categories, in report order.
var criticalGaps = []struct {
	name    string
	empty   func(*Structure) bool
	warning string
}{
	{"features", func(s *Structure) bool { return len(s.Features) == 0 },
		"No concrete features detected - state what the system should do"},
	{"entities", func(s *Structure) bool { return len(s.Entities) == 0 },
		"No entities detected - name the data models or actors involved"},
	{"flows", func(s *Structure) bool { return len(s.Flows) == 0 },
		"No flows detected - describe the key user or data flows"},
	{"error handling", func(s *Structure) bool { return len(s.ErrorHandling) == 0 },
		"No error handling specified - describe how failures are handled"},
	{"testing", func(s *Structure) bool { return len(s.Testing) == 0 },
		"No testing strategy specified - state how the behavior is verified"},
}

// vagueFeatureMaxWords is the word count below which a feature entry reads
// as a label rather than a requirement.
const vagueFeatureMaxWords = 3

// MissingAreas reports human-readable quality gaps in the extracted
// structure: one warning per empty critical category, plus structural
// smells. An empty slice means the structure covers the critical ground.
func MissingAreas(s *Structure) []string {
	warnings := []string{}

	for _, gap := range criticalGaps {
		if gap.empty(s) {
			warnings = append(warnings, gap.warning)
		}
	}

	// Vague-feature smell: most entries too short to implement.
	if n := len(s.Features); n > 0 {
		vague := 0
		for _, f := range s.Features {
			if len(strings.Fields(f)) < vagueFeatureMaxWords {
				vague++
			}
		}
		if vague*2 > n {
			warnings = append(warnings, fmt.Sprintf(
				"%d of %d feature entries are too vague to implement - expand them with specifics", vague, n))
		}
	}

	if len(s.Authentication) > 0 && len(s.Flows) == 0 {
		warnings = append(warnings,
			"Authentication is mentioned but no authentication flow is described")
	}

	if len(s.DataStorage) > 0 && len(s.Configuration) == 0 {
		warnings = append(warnings,
			"Data storage is mentioned without any configuration details (connection, credentials)")
	}

	return warnings
}
