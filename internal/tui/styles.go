package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	holderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	roleStyles = map[string]lipgloss.Style{
		"user":  lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		"ai":    lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		"guest": lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func roleStyle(role string) lipgloss.Style {
	if s, ok := roleStyles[role]; ok {
		return s
	}
	return dimStyle
}

// fitWidth trims a styled line to width visual columns. Event feed lines
// carry ANSI sequences, so plain rune slicing would cut escapes in half.
func fitWidth(line string, width int) string {
	if width <= 3 {
		return "..."
	}
	if lipgloss.Width(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "...")
}
