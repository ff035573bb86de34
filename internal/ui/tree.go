package ui

import (
	"fmt"
	"strings"

	"github.com/pthm/speclint/internal/speckit"
)

// structureCategory pairs a display label with one extracted category.
type structureCategory struct {
	label string
	items []string
}

// RenderStructure renders the extracted spec structure as a tree, followed
// by the quality score and any quality warnings. Empty categories are shown
// with a zero count so gaps are visible at a glance.
func (ui *UI) RenderStructure(s *speckit.Structure, score int, warnings []string) string {
	categories := []structureCategory{
		{"Features", s.Features},
		{"Entities", s.Entities},
		{"Flows", s.Flows},
		{"Configuration", s.Configuration},
		{"Error handling", s.ErrorHandling},
		{"Testing", s.Testing},
		{"Logging", s.Logging},
		{"Authentication", s.Authentication},
		{"Data storage", s.DataStorage},
	}

	st := ui.Styles
	var sb strings.Builder

	sb.WriteString(st.Header.Render("Spec structure"))
	sb.WriteString("\n")

	for i, cat := range categories {
		last := i == len(categories)-1

		connector, childPrefix := "├─ ", "│  "
		if last {
			connector, childPrefix = "└─ ", "   "
		}

		sb.WriteString(st.Tree.Render(connector))
		sb.WriteString(fmt.Sprintf("%s (%d)", cat.label, len(cat.items)))
		sb.WriteString("\n")

		for j, item := range cat.items {
			itemConnector := "├─ "
			if j == len(cat.items)-1 {
				itemConnector = "└─ "
			}
			sb.WriteString(st.Tree.Render(childPrefix + itemConnector))
			sb.WriteString(st.Dim.Render(item))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(st.Score.Render(fmt.Sprintf("Spec quality score: %d/95", score)))
	sb.WriteString("\n")

	for _, w := range warnings {
		sb.WriteString(st.Warning.Render(fmt.Sprintf("%s %s", st.IconWarning, w)))
		sb.WriteString("\n")
	}

	return sb.String()
}
