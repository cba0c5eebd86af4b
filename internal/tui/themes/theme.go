package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Selected       lipgloss.Style
	RoundedBox     lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusError    lipgloss.Style
	StatusPending  lipgloss.Style
	ConfidenceHigh lipgloss.Style
	ConfidenceMed  lipgloss.Style
	ConfidenceLow  lipgloss.Style
	Primary        lipgloss.Color
	Muted          lipgloss.Color
	Border         lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#7c3aed"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	ConfidenceHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
	ConfidenceMed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
	ConfidenceLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")),
}

// Plain renders without colors, for tests and dumb terminals.
var Plain = Theme{
	Title:          lipgloss.NewStyle(),
	Subtitle:       lipgloss.NewStyle(),
	Normal:         lipgloss.NewStyle(),
	Bold:           lipgloss.NewStyle(),
	Selected:       lipgloss.NewStyle(),
	RoundedBox:     lipgloss.NewStyle(),
	StatusSuccess:  lipgloss.NewStyle(),
	StatusWarning:  lipgloss.NewStyle(),
	StatusError:    lipgloss.NewStyle(),
	StatusPending:  lipgloss.NewStyle(),
	ConfidenceHigh: lipgloss.NewStyle(),
	ConfidenceMed:  lipgloss.NewStyle(),
	ConfidenceLow:  lipgloss.NewStyle(),
}
