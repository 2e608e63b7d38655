package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#76B900") // NVIDIA green
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
)

var (
	styleActiveTab   lipgloss.Style
	styleInactiveTab lipgloss.Style
	styleHeader      lipgloss.Style
	styleFooter      lipgloss.Style
	styleContent     lipgloss.Style
	styleSection     lipgloss.Style
	styleLabel       lipgloss.Style
	styleMuted       lipgloss.Style
	styleStale       lipgloss.Style
	styleSplash      lipgloss.Style
)

func init() {
	styleActiveTab = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorPrimary).
		Padding(0, 2)

	styleInactiveTab = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	styleHeader = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted)

	styleFooter = lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	styleContent = lipgloss.NewStyle().
		Padding(1, 2)

	styleSection = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSecondary)

	styleLabel = lipgloss.NewStyle().
		Foreground(colorPrimary)

	styleMuted = lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true)

	styleStale = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorDanger).
		Padding(0, 1)

	styleSplash = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Padding(2, 4)
}
