package ui

import "github.com/charmbracelet/lipgloss"

// ANSI base colors follow the terminal theme, so they stay readable on dark and light backgrounds.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed for secondary text
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle also marks error replies in the REPL
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
