package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pthm/speclint/internal/text"
)

// phrase matches a literal substring of the normalized text.
func phrase(s string) Predicate {
	return func(doc *text.Document) bool {
		return strings.Contains(doc.Norm, s)
	}
}

// PhraseAny matches when any of the given substrings appears in the
// normalized text. Exported for config-defined custom rules.
func PhraseAny(phrases ...string) Predicate {
	return func(doc *text.Document) bool {
		for _, p := range phrases {
			if strings.Contains(doc.Norm, p) {
				return true
			}
		}
		return false
	}
}

// pattern matches a regular expression against the normalized text. The
// expression is compiled at table construction.
func pattern(expr string) Predicate {
	re := regexp.MustCompile(expr)
	return func(doc *text.Document) bool {
		return re.MatchString(doc.Norm)
	}
}

func allOf(preds ...Predicate) Predicate {
	return func(doc *text.Document) bool {
		for _, p := range preds {
			if !p(doc) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...Predicate) Predicate {
	return func(doc *text.Document) bool {
		for _, p := range preds {
			if p(doc) {
				return true
			}
		}
		return false
	}
}

func not(p Predicate) Predicate {
	return func(doc *text.Document) bool {
		return !p(doc)
	}
}

// minWords gates a rule on prompt length so terse one-line prompts are not
// punished for omitting process detail.
func minWords(n int) Predicate {
	return func(doc *text.Document) bool {
		return doc.WordCount >= n
	}
}

// distinctAtLeast matches when at least n distinct phrases from the list
// appear in the normalized text.
func distinctAtLeast(n int, phrases ...string) Predicate {
	return func(doc *text.Document) bool {
		count := 0
		for _, p := range phrases {
			if strings.Contains(doc.Norm, p) {
				count++
				if count >= n {
					return true
				}
			}
		}
		return false
	}
}

var (
	recordCountPattern  = regexp.MustCompile(`\b(\d+)\s+(?:user\s+|customer\s+)?(?:records?|users?|rows?|ids?|entries|accounts?)\b`)
	leadingCountPattern = regexp.MustCompile(`\b(?:first|last|top|latest)\s+(\d+)\b`)
)

// recordCountAtLeast matches when the text quantifies records, rows, users,
// or ids with a number of at least n.
func recordCountAtLeast(n int) Predicate {
	return func(doc *text.Document) bool {
		return maxRecordCount(doc.Norm) >= n
	}
}

func maxRecordCount(norm string) int {
	max := 0
	for _, re := range []*regexp.Regexp{recordCountPattern, leadingCountPattern} {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			if v, err := strconv.Atoi(m[1]); err == nil && v > max {
				max = v
			}
		}
	}
	return max
}
