package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	App         lipgloss.Style
	Header      lipgloss.Style
	Panel       lipgloss.Style
	StationName lipgloss.Style
	Meta        lipgloss.Style
	ListHeader  lipgloss.Style
	ListItem    lipgloss.Style
	ListActive  lipgloss.Style
	KeyHint     lipgloss.Style
	HelpBox     lipgloss.Style
	Error       lipgloss.Style
	Accent      lipgloss.Style
	Muted       lipgloss.Style
}
