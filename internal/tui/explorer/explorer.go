package explorer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/tui/theme"
)

// SelectMsg is sent when the user runs the highlighted question.
type SelectMsg struct {
	Kind     catalog.Kind
	Question string
}

// Model lists the questions of one catalog.
type Model struct {
	catalog   *catalog.Catalog
	questions []string
	cursor    int
	width     int
	height    int
	focused   bool
}

// New creates a question list for the catalog. The first question is highlighted.
func New(c *catalog.Catalog) Model {
	return Model{
		catalog:   c,
		questions: c.Questions(),
	}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the list has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Kind returns the catalog kind this list shows.
func (m Model) Kind() catalog.Kind {
	return m.catalog.Kind()
}

// Title returns the catalog title.
func (m Model) Title() string {
	return m.catalog.Title()
}

// Highlighted returns the question under the cursor.
func (m Model) Highlighted() (catalog.Question, bool) {
	return m.catalog.At(m.cursor)
}

// Select returns a command that runs the highlighted question.
func (m Model) Select() tea.Cmd {
	q, ok := m.Highlighted()
	if !ok {
		return nil
	}
	kind := m.catalog.Kind()
	return func() tea.Msg {
		return SelectMsg{Kind: kind, Question: q.ID}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.questions)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.questions)-1)
		case "enter":
			return m, m.Select()
		}
	}

	return m, nil
}

// View renders the list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.StylePaneTitle.Render(m.catalog.Prompt()))
	b.WriteString("\n")

	visibleHeight := m.height - 2
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.questions) && i < scrollOffset+visibleHeight; i++ {
		b.WriteString(m.renderItem(i))
		if i < scrollOffset+visibleHeight-1 && i < len(m.questions)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderItem(i int) string {
	prefix := "  "
	if i == m.cursor {
		prefix = "> "
	}
	line := prefix + m.questions[i]

	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		runes := []rune(line)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		line = string(runes) + ".."
	}

	if i == m.cursor {
		return theme.StyleSelected.Render(line)
	}
	return line
}
