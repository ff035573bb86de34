package speckit

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pthm/speclint/internal/text"
)

// Structure is the nine-category breakdown of what a prompt states about the
// system to build. Every list is deduplicated, trimmed, capped, and ordered
// by first occurrence in the text. Empty lists are valid results, not errors.
type Structure struct {
	Features       []string `json:"features"`
	Entities       []string `json:"entities"`
	Flows          []string `json:"flows"`
	Configuration  []string `json:"configuration"`
	ErrorHandling  []string `json:"error_handling"`
	Testing        []string `json:"testing"`
	Logging        []string `json:"logging"`
	Authentication []string `json:"authentication"`
	DataStorage    []string `json:"data_storage"`
}

// TotalItems returns the item count summed across all nine categories.
func (s *Structure) TotalItems() int {
	total := 0
	for _, list := range s.lists() {
		total += len(list)
	}
	return total
}

// IsEmpty reports whether no category captured anything.
func (s *Structure) IsEmpty() bool {
	return s.TotalItems() == 0
}

func (s *Structure) lists() [][]string {
	return [][]string{
		s.Features, s.Entities, s.Flows,
		s.Configuration, s.ErrorHandling, s.Testing,
		s.Logging, s.Authentication, s.DataStorage,
	}
}

// Category item caps. Responses stay bounded no matter how repetitive the
// prompt is.
const (
	featureCap = 10
	entityCap  = 10
	flowCap    = 10
	configCap  = 10
	errorCap   = 5
	testingCap = 5
	loggingCap = 5
	authCap    = 10
	storageCap = 10
)

// Feature captures outside this length range are noise: shorter than 5 runes
// is a fragment, longer than 100 is a paragraph.
const (
	featureMinLen = 5
	featureMaxLen = 100
)

// scanner collects pattern matches for one category. When a pattern has a
// capture group, the group text becomes the item; otherwise the whole match
// does.
type scanner struct {
	patterns []*regexp.Regexp
	cap      int
	minLen   int
	maxLen   int
}

var (
	featureScanner = scanner{
		cap:    featureCap,
		minLen: featureMinLen,
		maxLen: featureMaxLen,
		patterns: compile(
			`implement\s+([^.;!?]+)`,
			`build\s+(?:a|an)\s+([^.;!?]+)`,
			`create\s+(?:a|an)\s+([^.;!?]+)`,
			`add\s+(?:a|an)\s+([^.;!?]+)`,
			`features?:\s*([^.;!?]+)`,
			`requirements?:\s*([^.;!?]+)`,
		),
	}

	entityScanner = scanner{
		cap: entityCap,
		patterns: compile(
			`\b(?:users?|admins?|accounts?|sessions?|tokens?|profiles?|dashboards?|apis?|endpoints?|databases?|tables?|models?)\b`,
		),
	}

	flowScanner = scanner{
		cap: flowCap,
		patterns: compile(
			`\b(?:login|log in|logout|log out|sign ?in|sign ?out|sign ?up|registration|register|password reset|checkout|authentication|authorization|crud|create|read|update|delete)\b`,
		),
	}

	configScanner = scanner{
		cap: configCap,
		patterns: compile(
			`\b(?:jwt secrets?|api keys?|database urls?|connection strings?|environment variables?|env files?|config files?|settings files?|secrets?|credentials?)\b`,
			`\.env\b`,
		),
	}

	errorScanner = scanner{
		cap: errorCap,
		patterns: compile(
			`\b(?:error handling|exception handling|fallbacks?|retr(?:y|ies)|graceful degradation|error responses?)\b`,
			`try\s?[/-]\s?catch`,
		),
	}

	testingScanner = scanner{
		cap: testingCap,
		patterns: compile(
			`\b(?:unit test(?:s|ing)?|integration test(?:s|ing)?|e2e tests?|end-to-end tests?|test coverage|automated test(?:s|ing)?|test (?:strategy|plan|suite|cases?))\b`,
		),
	}

	loggingScanner = scanner{
		cap: loggingCap,
		patterns: compile(
			`\b(?:audit log(?:ging|s)?|log(?:ging|s)?|observability|monitoring|metrics|telemetry)\b`,
		),
	}

	authScanner = scanner{
		cap: authCap,
		patterns: compile(
			`\b(?:oauth2?|jwts?|json web tokens?|sessions?|sso|single sign[- ]?on|rbac|role[- ]based|multi[- ]factor|mfa|authentication|authorization)\b`,
		),
	}

	storageScanner = scanner{
		cap: storageCap,
		patterns: compile(
			`\b(?:database|postgres(?:ql)?|mysql|mariadb|mongodb|sqlite|redis|dynamodb|elasticsearch|cach(?:e|ing)|storage|persist(?:ence|ent)?|sql|nosql|s3)\b`,
		),
	}
)

func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// Extract scans the normalized text for the nine semantic categories.
// Extraction never fails: a prompt that mentions nothing in a category
// yields an empty list for it.
func Extract(doc *text.Document) *Structure {
	return &Structure{
		Features:       featureScanner.scan(doc.Norm),
		Entities:       entityScanner.scan(doc.Norm),
		Flows:          flowScanner.scan(doc.Norm),
		Configuration:  configScanner.scan(doc.Norm),
		ErrorHandling:  errorScanner.scan(doc.Norm),
		Testing:        testingScanner.scan(doc.Norm),
		Logging:        loggingScanner.scan(doc.Norm),
		Authentication: authScanner.scan(doc.Norm),
		DataStorage:    storageScanner.scan(doc.Norm),
	}
}

type hit struct {
	pos  int
	item string
}

// scan runs every pattern, orders hits by position in the text so the first
// occurrence wins, then deduplicates and caps. Re-scanning a scan's own
// output is stable: no new items appear.
func (s scanner) scan(norm string) []string {
	var hits []hit
	for _, re := range s.patterns {
		for _, m := range re.FindAllStringSubmatchIndex(norm, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			item := strings.TrimSpace(norm[start:end])
			if item == "" {
				continue
			}
			if s.minLen > 0 && len(item) < s.minLen {
				continue
			}
			if s.maxLen > 0 && len(item) > s.maxLen {
				continue
			}
			hits = append(hits, hit{pos: m[0], item: item})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]bool, len(hits))
	items := make([]string, 0, s.cap)
	for _, h := range hits {
		if seen[h.item] {
			continue
		}
		seen[h.item] = true
		items = append(items, h.item)
		if len(items) == s.cap {
			break
		}
	}
	return items
}
