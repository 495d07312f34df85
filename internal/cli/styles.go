package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	opcodeStyle = lipgloss.NewStyle().Bold(true)
)
