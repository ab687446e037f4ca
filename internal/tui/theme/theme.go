package theme

import "github.com/charmbracelet/lipgloss"

// Palette. Primary is the dashboard accent; the rest are 256-color codes that read
// well on dark and light terminals.
var (
	ColorPrimary   = lipgloss.Color("203")
	ColorSecondary = lipgloss.Color("244")
	ColorSuccess   = lipgloss.Color("36")
	ColorError     = lipgloss.Color("160")
	ColorBorder    = lipgloss.Color("240")
	ColorMuted     = lipgloss.Color("246")
	ColorHighlight = lipgloss.Color("222")
	ColorKeyword   = lipgloss.Color("74")
	ColorLiteral   = lipgloss.Color("179")
	ColorBar       = lipgloss.Color("235")
)

// Styles shared by the dashboard panes.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StylePaneTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StyleKeyword = lipgloss.NewStyle().
			Foreground(ColorKeyword).
			Bold(true)

	StyleLiteral = lipgloss.NewStyle().
			Foreground(ColorLiteral)

	StyleTab = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	StyleActiveTab = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorBar).
			Underline(true).
			Bold(true).
			Padding(0, 2)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)
