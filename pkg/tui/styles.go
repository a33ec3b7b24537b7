package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#636EFA")
	muted   = lipgloss.Color("#8A8F98")
	danger  = lipgloss.Color("#E53935")
	inkDark = lipgloss.Color("#101F38")
)

type styles struct {
	title      lipgloss.Style
	heading    lipgloss.Style
	subheading lipgloss.Style
	muted      lipgloss.Style
	focused    lipgloss.Style
	error      lipgloss.Style
	bar        lipgloss.Style
	line       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(inkDark),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		subheading: lipgloss.NewStyle().Bold(true),
		muted:      lipgloss.NewStyle().Foreground(muted),
		focused:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		error:      lipgloss.NewStyle().Bold(true).Foreground(danger),
		bar:        lipgloss.NewStyle().Foreground(accent),
		line:       lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#D3D3D3")),
	}
}
