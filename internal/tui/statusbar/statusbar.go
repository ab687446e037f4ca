package statusbar

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/joacominatel/salesdash/internal/tui/theme"
)

// Model is the status bar component.
type Model struct {
	width      int
	connected  bool
	connName   string
	activePane string
	message    string
	hints      string
	rows       int
	fetchedAt  time.Time
	now        func() time.Time
}

// New creates a new status bar model.
func New() Model {
	return Model{
		activePane: "questions",
		now:        time.Now,
	}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display.
func (m *Model) SetConnected(connected bool, name string) {
	m.connected = connected
	m.connName = name
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// SetHints sets the key hints shown when there is no message.
func (m *Model) SetHints(h string) {
	m.hints = h
}

// SetResult shows the size and age of the displayed result. A zero fetchedAt hides
// the age.
func (m *Model) SetResult(rows int, fetchedAt time.Time) {
	m.rows = rows
	m.fetchedAt = fetchedAt
}

// ResultInfo describes the displayed result, e.g. "1,204 rows, fetched 3 minutes ago".
func (m Model) ResultInfo() string {
	if m.fetchedAt.IsZero() {
		return ""
	}
	noun := "rows"
	if m.rows == 1 {
		noun = "row"
	}
	return humanize.Comma(int64(m.rows)) + " " + noun + ", fetched " + humanize.RelTime(m.fetchedAt, m.now(), "ago", "from now")
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (status bar has no interactive behavior).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var left string
	if m.connected {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorSuccess).
			Render("●") + " " + m.connName
	} else {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render("●") + " disconnected"
	}
	if info := m.ResultInfo(); info != "" {
		left += theme.StyleMuted.Render(" │ " + info)
	}

	right := m.hints
	if m.message != "" {
		right = m.message
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
