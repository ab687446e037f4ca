package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/tui/explorer"
	"github.com/joacominatel/salesdash/internal/tui/preview"
	"github.com/joacominatel/salesdash/internal/tui/results"
	"github.com/joacominatel/salesdash/internal/tui/statusbar"
	"github.com/joacominatel/salesdash/internal/tui/theme"
)

const (
	dashboardTitle    = "Retail Sales Analysis Dashboard"
	dashboardHeader   = "Explore Key Metrics"
	dashboardSubtitle = "Select the Questions below"
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneQuestions Pane = iota
	PanePreview
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneQuestions:
		return "questions"
	case PanePreview:
		return "sql"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// AppMode tracks the current UI state.
type AppMode int

const (
	ModeConnecting AppMode = iota // waiting for the store
	ModeFatal                     // connection failed; only quitting is possible
	ModeMain                      // dashboard
)

// Custom messages for async operations.
type (
	connectedMsg struct {
		err error
	}
	reportMsg struct {
		tab    int
		seq    int
		report app.RenderInstruction
	}
)

// Options configures the dashboard.
type Options struct {
	// DSN is the store connection string.
	DSN string
	// Display names the connection in the status bar, without credentials.
	Display string
	// ConnectTimeout bounds the startup connection, retries included.
	ConnectTimeout time.Duration
	// ExportDir is where exports are written. Empty means the working directory.
	ExportDir string
}

// tab is one catalog: its question list, its last result and the run it awaits.
type tab struct {
	list    explorer.Model
	results results.Model
	seq     int
	last    string
}

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	service    *app.Service
	opts       Options
	tabs       []tab
	active     int
	preview    preview.Model
	statusbar  statusbar.Model
	help       help.Model
	spinner    spinner.Model
	activePane Pane
	mode       AppMode
	width      int
	height     int
	err        error
	showHelp   bool
}

// NewModel creates the top-level model with one tab per catalog.
func NewModel(service *app.Service, opts Options) Model {
	m := Model{
		service:   service,
		opts:      opts,
		preview:   preview.New(),
		statusbar: statusbar.New(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		mode:      ModeConnecting,
	}

	for _, c := range service.Catalogs().All() {
		t := tab{list: explorer.New(c), results: results.New()}
		t.results.SetExportDir(opts.ExportDir)
		m.tabs = append(m.tabs, t)
	}

	m.statusbar.SetHints(m.help.ShortHelpView(keys.ShortHelp()))
	m.setFocus(PaneQuestions)
	m.syncPreview()
	return m
}

// Err returns the connection error that ended the session, if any.
func (m Model) Err() error {
	if m.mode == ModeFatal {
		return m.err
	}
	return nil
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.connectCmd())
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeConnecting:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case ModeFatal:
			switch msg.String() {
			case "q", "esc", "enter":
				return m, tea.Quit
			}
			return m, nil
		}
		return m.updateMain(msg)

	case connectedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = ModeFatal
			return m, nil
		}
		m.mode = ModeMain
		m.statusbar.SetConnected(true, m.connectionName())
		m.layout()

		// Every tab shows its first question on load.
		var cmds []tea.Cmd
		for i := range m.tabs {
			if q, ok := m.tabs[i].list.Highlighted(); ok {
				cmds = append(cmds, m.runCmd(i, q.ID))
			}
		}
		return m, tea.Batch(cmds...)

	case explorer.SelectMsg:
		for i := range m.tabs {
			if m.tabs[i].list.Kind() == msg.Kind {
				m.statusbar.SetMessage("")
				return m, m.runCmd(i, msg.Question)
			}
		}
		return m, nil

	case reportMsg:
		if msg.tab < 0 || msg.tab >= len(m.tabs) || m.tabs[msg.tab].seq != msg.seq {
			return m, nil
		}
		m.tabs[msg.tab].results.SetReport(msg.report)
		m.syncStatus()
		return m, nil

	case results.StatusNotifyMsg:
		m.statusbar.SetMessage(msg.Message)
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.mode == ModeConnecting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		for i := range m.tabs {
			var cmd tea.Cmd
			m.tabs[i].results, cmd = m.tabs[i].results.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, keys.Tab1):
		m.switchTab(0)
		return m, nil
	case key.Matches(msg, keys.Tab2):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, keys.PrevTab):
		m.switchTab((m.active + len(m.tabs) - 1) % len(m.tabs))
		return m, nil
	case key.Matches(msg, keys.NextTab):
		m.switchTab((m.active + 1) % len(m.tabs))
		return m, nil
	case key.Matches(msg, keys.NextPane):
		m.setFocus((m.activePane + 1) % 3)
		return m, nil
	case key.Matches(msg, keys.PrevPane):
		m.setFocus((m.activePane + 2) % 3)
		return m, nil
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh()
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	t := &m.tabs[m.active]

	switch m.activePane {
	case PaneQuestions:
		t.list, cmd = t.list.Update(msg)
		m.syncPreview()
	case PanePreview:
		m.preview, cmd = m.preview.Update(msg)
	case PaneResults:
		t.results, cmd = t.results.Update(msg)
	}

	return m, cmd
}

// refresh drops every cached result and re-runs the active tab's last question.
func (m *Model) refresh() tea.Cmd {
	m.service.Refresh()
	t := m.tabs[m.active]
	question := t.last
	if question == "" {
		q, ok := t.list.Highlighted()
		if !ok {
			return nil
		}
		question = q.ID
	}
	m.statusbar.SetMessage("Cache cleared")
	return m.runCmd(m.active, question)
}

func (m *Model) switchTab(i int) {
	if i < 0 || i >= len(m.tabs) || i == m.active {
		return
	}
	m.active = i
	m.setFocus(m.activePane)
	m.syncPreview()
	m.syncStatus()
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	for i := range m.tabs {
		active := i == m.active
		m.tabs[i].list.SetFocused(active && pane == PaneQuestions)
		m.tabs[i].results.SetFocused(active && pane == PaneResults)
	}
	m.preview.SetFocused(pane == PanePreview)
	m.statusbar.SetActivePane(pane.String())
}

func (m *Model) syncPreview() {
	if len(m.tabs) == 0 {
		return
	}
	if q, ok := m.tabs[m.active].list.Highlighted(); ok {
		m.preview.SetStatement(q.ID, q.Statement)
	}
}

func (m *Model) syncStatus() {
	r, ok := m.tabs[m.active].results.Report()
	if !ok || r.FetchedAt == nil {
		m.statusbar.SetResult(0, time.Time{})
		return
	}
	m.statusbar.SetResult(r.RowCount, *r.FetchedAt)
}

func (m Model) connectionName() string {
	if m.opts.Display != "" {
		return m.opts.Display
	}
	return m.service.DatabaseName()
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	listWidth, rightWidth, previewHeight, resultsHeight := m.dimensions()
	for i := range m.tabs {
		m.tabs[i].list.SetSize(listWidth-2, previewHeight+resultsHeight+2)
		m.tabs[i].results.SetSize(rightWidth-2, resultsHeight)
	}
	m.preview.SetSize(rightWidth-2, previewHeight)
	m.statusbar.SetWidth(m.width)
}

// dimensions splits the screen below the header into the question list on the
// left and the SQL preview above the results on the right.
func (m Model) dimensions() (listWidth, rightWidth, previewHeight, resultsHeight int) {
	const headerHeight, statusHeight = 4, 1

	listWidth = min(max(m.width*2/5, 30), 64)
	rightWidth = m.width - listWidth

	avail := m.height - headerHeight - statusHeight - 4
	previewHeight = max(avail*35/100, 4)
	resultsHeight = max(avail-previewHeight, 3)
	return listWidth, rightWidth, previewHeight, resultsHeight
}

// Async commands

func (m Model) connectCmd() tea.Cmd {
	service := m.service
	dsn := m.opts.DSN
	timeout := m.opts.ConnectTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return connectedMsg{err: service.Connect(ctx, dsn)}
	}
}

// runCmd starts a selection on tab i. Only the newest run of a tab is displayed.
func (m *Model) runCmd(i int, question string) tea.Cmd {
	t := &m.tabs[i]
	t.seq++
	t.last = question

	seq := t.seq
	kind := t.list.Kind()
	service := m.service
	tick := t.results.SetLoading(true)

	return tea.Batch(tick, func() tea.Msg {
		report := service.Select(context.Background(), kind, question)
		return reportMsg{tab: i, seq: seq, report: report}
	})
}

// View renders the entire application.
func (m Model) View() string {
	switch {
	case m.mode == ModeConnecting:
		return m.viewConnecting()
	case m.mode == ModeFatal:
		return m.viewFatal()
	case m.showHelp:
		return m.viewHelp()
	default:
		return m.viewMain()
	}
}

func (m Model) viewHeader() string {
	title := theme.StyleTitle.Render(dashboardTitle)
	header := lipgloss.NewStyle().Bold(true).Render(dashboardHeader)
	subtitle := theme.StyleMuted.Render(dashboardSubtitle)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			tabs[i] = theme.StyleActiveTab.Render(t.list.Title())
		} else {
			tabs[i] = theme.StyleTab.Render(t.list.Title())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		" "+title,
		" "+header,
		" "+subtitle,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m Model) viewConnecting() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Padding(1, 0).Render(dashboardTitle),
		m.spinner.View()+" Connecting to "+m.connectionName()+"...",
		"",
		theme.StyleMuted.Render("q: Quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewFatal() string {
	msg := "unknown error"
	if m.err != nil {
		msg = m.err.Error()
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Padding(1, 0).Render(dashboardTitle),
		theme.StyleError.Render("Could not connect to the database"),
		theme.StyleError.Render("  "+msg),
		"",
		theme.StyleMuted.Render("q / Enter: Quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewMain() string {
	if len(m.tabs) == 0 {
		return m.viewHeader()
	}

	listWidth, rightWidth, previewHeight, resultsHeight := m.dimensions()
	t := m.tabs[m.active]

	border := func(p Pane) lipgloss.Style {
		if m.activePane == p {
			return theme.StyleActiveBorder
		}
		return theme.StyleBorder
	}

	listView := border(PaneQuestions).
		Width(listWidth - 2).
		Height(previewHeight + resultsHeight + 2).
		Render(t.list.View())

	previewView := border(PanePreview).
		Width(rightWidth - 2).
		Height(previewHeight).
		Render(m.preview.View())

	resultsView := border(PaneResults).
		Width(rightWidth - 2).
		Height(resultsHeight).
		Render(t.results.View())

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top,
		listView,
		lipgloss.JoinVertical(lipgloss.Left, previewView, resultsView),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		mainArea,
		m.statusbar.View(),
	)
}

func (m Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Render(dashboardTitle+" - Keyboard Shortcuts"),
		"",
		h.View(keys),
		"",
		theme.StyleMuted.Render("Press any key to close"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
