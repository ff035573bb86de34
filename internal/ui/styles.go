package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/rules"
)

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Severity styles
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Blocker lipgloss.Style
	Success lipgloss.Style

	// Risk badges
	RiskLow    lipgloss.Style
	RiskMedium lipgloss.Style
	RiskHigh   lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Tree      lipgloss.Style
	Dim       lipgloss.Style
	Score     lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconWarning string
	IconSuccess string
}

// NewStyles creates a new Styles instance
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		// Severity styles
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))    // Blue
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Yellow
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))    // Red
		s.Blocker = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")) // White on red
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green

		// Risk badges
		s.RiskLow = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
		s.RiskMedium = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
		s.RiskHigh = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1)

		// Structural styles
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")) // White bold
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))          // Gray
		s.Tree = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))             // Dark gray
		s.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
		s.Score = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // Cyan

		// Unicode icons
		s.IconWarning = "⚠" // ⚠
		s.IconSuccess = "✓" // ✓
	} else {
		// No-op styles for non-TTY (plain text output)
		s.Info = lipgloss.NewStyle()
		s.Warning = lipgloss.NewStyle()
		s.Error = lipgloss.NewStyle()
		s.Blocker = lipgloss.NewStyle()
		s.Success = lipgloss.NewStyle()

		s.RiskLow = lipgloss.NewStyle()
		s.RiskMedium = lipgloss.NewStyle()
		s.RiskHigh = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Tree = lipgloss.NewStyle()
		s.Dim = lipgloss.NewStyle()
		s.Score = lipgloss.NewStyle()

		// ASCII fallback icons
		s.IconWarning = "WARN:"
		s.IconSuccess = "OK:"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Severity returns the style for a finding severity.
func (s *Styles) Severity(sev rules.Severity) lipgloss.Style {
	switch sev {
	case rules.Blocker:
		return s.Blocker
	case rules.Error:
		return s.Error
	case rules.Warning:
		return s.Warning
	default:
		return s.Info
	}
}

// RiskBadge renders a risk level as a badge, or plain text when styling is
// disabled.
func (s *Styles) RiskBadge(level risk.Level) string {
	switch level {
	case risk.High:
		return s.RiskHigh.Render("HIGH RISK")
	case risk.Medium:
		return s.RiskMedium.Render("MEDIUM RISK")
	default:
		return s.RiskLow.Render("LOW RISK")
	}
}
