package ui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	title    lipgloss.Style
	welcome  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	missing  lipgloss.Style
	footer   lipgloss.Style
	errorMsg lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		welcome: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:    lipgloss.NewStyle().Bold(true),
		missing:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
		footer:   lipgloss.NewStyle().Faint(true),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
