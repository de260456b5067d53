package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the workspace view.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Body      lipgloss.Style
	Log       lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		Body:      lipgloss.NewStyle().PaddingLeft(2),
		Log:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
