package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/devtask/internal/task"
)

var (
	listHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	listName    = lipgloss.NewStyle().Bold(true)
	listPattern = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#874BFD"))
	listDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// renderTaskList formats registry entries as an aligned two-column list.
// Styles degrade to plain text when the output is not a terminal.
func renderTaskList(entries []task.Entry) string {
	width := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Name); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(listHeader.Render("Tasks:"))
	b.WriteString("\n")
	for _, e := range entries {
		style := listName
		if e.Pattern {
			style = listPattern
		}
		name := style.Width(width).Render(e.Name)
		b.WriteString("  " + name + "  " + listDim.Render(e.Description) + "\n")
	}
	return b.String()
}
