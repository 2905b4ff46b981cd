package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Army green palette
var (
	// Foreground colors
	ColorFgPrimary   = lipgloss.Color("#D8DEC8")
	ColorFgSecondary = lipgloss.Color("#A3AD8C")
	ColorFgMuted     = lipgloss.Color("#6F7A5C")

	// Accent colors
	ColorOlive  = lipgloss.Color("#7A8F3A")
	ColorGold   = lipgloss.Color("#D4AF37")
	ColorRed    = lipgloss.Color("#E06C75")
	ColorGreen  = lipgloss.Color("#98C379")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorBlue   = lipgloss.Color("#61AFEF")

	// UI colors
	ColorBorder    = lipgloss.Color("#4B5238")
	ColorHighlight = lipgloss.Color("#3A4128")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true).
			PaddingLeft(1)

	// Sidebar styles
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Foreground(ColorOlive).
				Bold(true)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(ColorFgSecondary)

	SidebarActiveStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Background(ColorHighlight).
				Bold(true)

	// Content area
	ContentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ContentTitleStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Bold(true)

	// Dashboard cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOlive).
			Padding(0, 2).
			MarginRight(1)

	CardValueStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	CardLabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)

	// Form styles
	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOlive).
			Padding(1, 2)

	FormLabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary).
			Width(18)

	FormFocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Bold(true).
				Width(18)

	FormChoiceStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	// Login box
	LoginStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorOlive).
			Padding(1, 3)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	StatusUserStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	// Help overlay styles
	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	// Confirmation dialog
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	// Dimmed/info style for less important messages
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)
)

// tableStyles returns the bubbles table styles in the palette above
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Foreground(ColorOlive).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorGold).
		Background(ColorHighlight).
		Bold(false)
	return s
}
