package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage represents the current stage of the handoff pipeline
type Stage int

const (
	StageAnalyze Stage = iota
	StageCurate
	StageHandoff
	StageDone
)

const stageCount = 3

// Message types for updating the model
type (
	StageMsg     Stage
	OperationMsg string
	DoneMsg      struct{ Err error }
)

// Model is the Bubbletea model for the handoff progress display
type Model struct {
	stage     Stage
	spinner   spinner.Model
	progress  progress.Model
	currentOp string
	width     int
	quitting  bool
	err       error
}

// NewModel creates a new progress model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := progress.New(progress.WithDefaultGradient())

	return Model{
		stage:    StageAnalyze,
		spinner:  s,
		progress: p,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 4
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		m.currentOp = ""
		return m, nil

	case OperationMsg:
		m.currentOp = string(msg)
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	pct := float64(m.stage) / float64(stageCount)
	sb.WriteString(m.progress.ViewAs(pct))
	sb.WriteString("\n")

	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")

	switch {
	case m.currentOp != "":
		sb.WriteString(m.currentOp)
	case m.stage == StageAnalyze:
		sb.WriteString("Analyzing prompt...")
	case m.stage == StageCurate:
		sb.WriteString("Building curated prompt...")
	case m.stage == StageHandoff:
		sb.WriteString("Handing off to Claude Code...")
	default:
		sb.WriteString(fmt.Sprintf("Stage %d...", int(m.stage)))
	}

	return sb.String()
}
