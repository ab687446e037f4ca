package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/tui/theme"
)

const maxColWidth = 40

// Model is the results pane of one tab.
type Model struct {
	report    *app.RenderInstruction
	cells     [][]string
	colWidths []int
	width     int
	height    int
	focused   bool
	loading   bool
	spinner   spinner.Model
	cursorX   int
	cursorY   int
	scrollY   int
	exportDir string
}

// New creates a new results model.
func New() Model {
	return Model{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ColorPrimary)),
		),
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

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetExportDir sets where exports are written. Empty means the working directory.
func (m *Model) SetExportDir(dir string) {
	m.exportDir = dir
}

// SetLoading toggles the spinner. Starting it returns the first tick.
func (m *Model) SetLoading(l bool) tea.Cmd {
	m.loading = l
	if l {
		return m.spinner.Tick
	}
	return nil
}

// Loading reports whether a selection is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// SetReport shows the outcome of a selection.
func (m *Model) SetReport(r app.RenderInstruction) {
	m.report = &r
	m.cells = r.Cells()
	m.cursorX = 0
	m.cursorY = 0
	m.scrollY = 0
	m.loading = false
	m.calculateColumnWidths()
}

// Report returns the instruction currently shown.
func (m Model) Report() (app.RenderInstruction, bool) {
	if m.report == nil {
		return app.RenderInstruction{}, false
	}
	return *m.report, true
}

// Cursor returns the selected row and column.
func (m Model) Cursor() (row, col int) {
	return m.cursorY, m.cursorX
}

func (m *Model) calculateColumnWidths() {
	if m.report == nil || len(m.report.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.report.Columns))
	for i, col := range m.report.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}
	for _, row := range m.cells {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}
	for i := range m.colWidths {
		m.colWidths[i] = min(max(m.colWidths[i], 1), maxColWidth)
	}
}

func (m Model) visibleRows() int {
	return max(m.height-4, 1)
}

func (m *Model) moveRow(delta int) {
	if len(m.cells) == 0 {
		return
	}
	m.cursorY = min(max(m.cursorY+delta, 0), len(m.cells)-1)
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+m.visibleRows() {
		m.scrollY = m.cursorY - m.visibleRows() + 1
	}
}

func (m *Model) moveCol(delta int) {
	if len(m.colWidths) == 0 {
		return
	}
	m.cursorX = min(max(m.cursorX+delta, 0), len(m.colWidths)-1)
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			m.moveRow(-1)
		case "down", "j":
			m.moveRow(1)
		case "left", "h":
			m.moveCol(-1)
		case "right", "l":
			m.moveCol(1)
		case "pgup":
			m.moveRow(-m.visibleRows())
		case "pgdown":
			m.moveRow(m.visibleRows())
		case "y":
			return m, m.copyCellCmd()
		case "Y":
			return m, m.copyRowJSONCmd()
		case "c":
			return m, m.copyRowCSVCmd()
		case "e":
			return m, m.exportCSVCmd()
		case "E":
			return m, m.exportJSONCmd()
		}
	}

	return m, nil
}

// View renders the results pane.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Results")

	if m.loading {
		return title + "\n  " + m.spinner.View() + theme.StyleMuted.Render(" Running query...")
	}

	if m.report == nil {
		return title + "\n" + theme.StyleMuted.Render("  Select a question and press Enter")
	}

	r := m.report
	if r.Title != "" {
		title = theme.StylePaneTitle.Render(r.Title)
	}

	switch r.Kind {
	case app.RenderPrompt:
		return title + "\n" + theme.StyleMuted.Render("  "+r.Message)
	case app.RenderError:
		return title + "\n" + theme.StyleError.Render("  "+r.Message)
	case app.RenderNoData:
		return title + "\n" + theme.StyleMuted.Render("  "+r.Message)
	}

	stats := fmt.Sprintf("%d row(s) | %s", r.RowCount, (time.Duration(r.DurationMs) * time.Millisecond).String())

	var b strings.Builder
	b.WriteString(title + "  " + theme.StyleMuted.Render(stats))
	b.WriteString("\n")
	b.WriteString(m.renderRow(r.Columns, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	for i := m.scrollY; i < len(m.cells) && i < m.scrollY+m.visibleRows(); i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.cells[i], i))
	}

	return b.String()
}

// renderRow renders one line of the table; row is -1 for the header.
func (m Model) renderRow(cells []string, row int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := 10
		if i < len(m.colWidths) {
			width = m.colWidths[i]
		}
		display := fit(cell, width)

		switch {
		case row < 0:
			parts[i] = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(display)
		case m.focused && row == m.cursorY && i == m.cursorX:
			parts[i] = lipgloss.NewStyle().Reverse(true).Render(display)
		case row == m.cursorY:
			parts[i] = theme.StyleSelected.Render(display)
		default:
			parts[i] = display
		}
	}
	return "  " + strings.Join(parts, " │ ")
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int) string {
	width = max(width, 1)
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		parts[i] = strings.Repeat("─", max(w, 1))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
