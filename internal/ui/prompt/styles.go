package prompt

import "github.com/charmbracelet/lipgloss"

var (
	questionMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	messageStyle      = lipgloss.NewStyle().Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	normalStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	sentinelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	separatorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	answerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
