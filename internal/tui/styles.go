package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

var (
	// Styles
	highlight = lipgloss.Color("#7D56F4")

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43BF6D"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(highlight)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C6C6C"))

	chatViewportStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(highlight)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	footerStyle = lipgloss.NewStyle()

	// Connection states
	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43BF6D"))

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F87"))

	approvalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)
)
