// Package guidance turns findings into reviewer-facing advice and a curated
// prompt that carries the security constraints alongside the original text.
package guidance

import (
	"fmt"
	"strings"

	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/rules"
)

// Item is one piece of guidance shown to the prompt author.
type Item struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// constraintRules maps finding-code substrings to curated-prompt constraint
// lines and optional guidance items. Each mapping fires at most once per
// analysis, no matter how many findings carry a matching code.
var constraintRules = []struct {
	keys        []string
	constraints []string
	item        *Item
}{
	{
		keys: []string{"UNAUTH", "NO_AUTH"},
		constraints: []string{
			"- Require proper authentication and authorization for all endpoints",
		},
		item: &Item{
			Title:  "Authentication Required",
			Detail: "All endpoints must implement proper authentication. Use established auth frameworks.",
		},
	},
	{
		keys: []string{"TLS", "HTTPS", "HTTP"},
		constraints: []string{
			"- Use HTTPS/TLS for all network communication, especially authentication flows",
		},
		item: &Item{
			Title:  "Use HTTPS/TLS",
			Detail: "Always use HTTPS/TLS for secure communication, even in internal networks.",
		},
	},
	{
		keys: []string{"SECRET", "JWT", "TOKEN"},
		constraints: []string{
			"- Never hardcode secrets, tokens, or credentials in code or config files",
			"- Use environment variables or secure secret management systems",
		},
		item: &Item{
			Title:  "Secure Secret Management",
			Detail: "Use environment variables or dedicated secret managers (e.g., AWS Secrets Manager, HashiCorp Vault).",
		},
	},
	{
		keys: []string{"ADMIN", "BACKDOOR"},
		constraints: []string{
			"- Never auto-create admin accounts or backdoors",
			"- Implement secure admin account creation with strong authentication",
		},
	},
	{
		keys: []string{"WIPE", "DROP", "DELETE"},
		constraints: []string{
			"- Never automatically wipe or recreate production data",
			"- Require explicit admin action for destructive operations",
		},
	},
	{
		keys: []string{"DEBUG", "STACKTRACE"},
		constraints: []string{
			"- Never expose stack traces, debug info, or environment variables to clients",
			"- Log sensitive errors securely on the server side only",
		},
	},
	{
		keys: []string{"PAYOUT", "PAYMENT", "BALANCE", "FINANCIAL"},
		constraints: []string{
			"- Implement strict authentication and authorization for all financial operations",
			"- Validate and audit all balance adjustments and transactions",
		},
	},
	{
		keys: []string{"PLAINTEXT"},
		constraints: []string{
			"- Store credentials only as slow-KDF hashes, never in plain text",
		},
	},
	{
		keys: []string{"HASH"},
		constraints: []string{
			"- Hash passwords with bcrypt, scrypt, or argon2, never with fast digests",
		},
	},
	{
		keys: []string{"LOGS"},
		constraints: []string{
			"- Never write credentials or personal data to logs; mask or drop sensitive fields",
		},
	},
	{
		keys: []string{"VALIDATION"},
		constraints: []string{
			"- Validate and constrain all input at every trust boundary",
		},
	},
	{
		keys: []string{"ARCH_"},
		item: &Item{
			Title:  "Clarify Technology Stack",
			Detail: "Pick one concrete storage engine and keep the persistence requirements consistent.",
		},
	},
}

// Build derives guidance items and the curated prompt from an analysis.
// The curated prompt is the original text followed by the findings that
// must be addressed and the derived constraints; a clean analysis appends a
// short security note instead. warningThreshold gates the quality section
// the same way it gates risk escalation; values below 1 fall back to the
// default.
func Build(prompt string, findings []rules.Finding, warningThreshold int) ([]Item, string) {
	if warningThreshold <= 0 {
		warningThreshold = risk.DefaultWarningThreshold
	}

	var blockers, errors, warnings []rules.Finding
	for _, f := range findings {
		switch f.Severity {
		case rules.Blocker:
			blockers = append(blockers, f)
		case rules.Error:
			errors = append(errors, f)
		case rules.Warning:
			warnings = append(warnings, f)
		}
	}

	var items []Item
	if len(findings) > 0 {
		items = append(items, Item{
			Title: "Security Analysis Summary",
			Detail: fmt.Sprintf("Analyzed prompt and found %d total issues: %d blockers, %d errors, %d warnings.",
				len(findings), len(blockers), len(errors), len(warnings)),
		})
	}
	if len(blockers) > 0 {
		items = append(items, Item{
			Title: "Critical Security Issues Detected",
			Detail: fmt.Sprintf("Found %d BLOCKER-level security issues that must be addressed. "+
				"These represent serious vulnerabilities that could lead to data breaches or system compromise.", len(blockers)),
		})
	}
	if len(errors) > 0 {
		items = append(items, Item{
			Title: "Security Errors Found",
			Detail: fmt.Sprintf("Found %d ERROR-level security issues. "+
				"These should be fixed to meet security best practices.", len(errors)),
		})
	}
	if len(warnings) > 0 {
		items = append(items, Item{
			Title: "Security Warnings",
			Detail: fmt.Sprintf("Found %d WARNING-level issues. "+
				"Consider addressing these to improve security posture.", len(warnings)),
		})
	}

	constraints, mapped := deriveConstraints(findings)
	items = append(items, mapped...)

	if len(findings) == 0 {
		items = append(items, Item{
			Title:  "No Security Issues Detected",
			Detail: "The prompt passed all security checks. Proceed with implementation following best practices.",
		})
	}

	showQuality := len(warnings) >= warningThreshold
	curated := curate(prompt, blockers, errors, warnings, constraints, showQuality)

	return items, curated
}

// deriveConstraints walks findings in order and fires each constraint
// mapping at most once, so the constraint list follows the finding order.
func deriveConstraints(findings []rules.Finding) ([]string, []Item) {
	var constraints []string
	var items []Item
	fired := make(map[int]bool)

	for _, f := range findings {
		for i, m := range constraintRules {
			if fired[i] || !matchesAny(f.Code, m.keys) {
				continue
			}
			fired[i] = true
			constraints = append(constraints, m.constraints...)
			if m.item != nil {
				items = append(items, *m.item)
			}
		}
	}
	return constraints, items
}

func matchesAny(code string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(code, k) {
			return true
		}
	}
	return false
}

func curate(prompt string, blockers, errors, warnings []rules.Finding, constraints []string, showQuality bool) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(prompt, "\n"))
	b.WriteString("\n\n---\n")

	wrote := false
	if len(blockers) > 0 {
		b.WriteString("CRITICAL SECURITY ISSUES (must fix):\n")
		writeFindingLines(&b, blockers)
		wrote = true
	}
	if len(errors) > 0 {
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString("SECURITY ERRORS (should fix):\n")
		writeFindingLines(&b, errors)
		wrote = true
	}
	if showQuality && len(warnings) > 0 {
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString("Quality and Design Concerns:\n")
		writeFindingLines(&b, warnings)
		wrote = true
	}
	if len(constraints) > 0 {
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString("IMPORTANT SECURITY CONSTRAINTS:\n")
		b.WriteString("The following security requirements MUST be followed during implementation:\n\n")
		for _, c := range constraints {
			b.WriteString(c)
			b.WriteByte('\n')
		}
		b.WriteString("\n---\n")
		b.WriteString("These constraints have been added based on automated security analysis.\n")
		b.WriteString("Do not implement features that violate these requirements.\n")
		return b.String()
	}

	if !wrote {
		b.WriteString("SECURITY NOTE: This prompt has been analyzed and no security issues were detected.\n")
		b.WriteString("Please follow general security best practices during implementation.\n")
	}
	return b.String()
}

func writeFindingLines(b *strings.Builder, findings []rules.Finding) {
	for _, f := range findings {
		fmt.Fprintf(b, "- %s\n", f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(b, "  Fix: %s\n", f.Suggestion)
		}
	}
}
