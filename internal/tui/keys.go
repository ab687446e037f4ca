package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Run      key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	PrevTab  key.Binding
	NextTab  key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Refresh  key.Binding
	CopyCell key.Binding
	CopyJSON key.Binding
	CopyCSV  key.Binding
	SaveCSV  key.Binding
	SaveJSON key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous column")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	Run:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run question")),
	Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "existing questions")),
	Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "new questions")),
	PrevTab:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous tab")),
	NextTab:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
	NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	PrevPane: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh (skip cache)")),
	CopyCell: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	CopyJSON: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row as JSON")),
	CopyCSV:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy row as CSV")),
	SaveCSV:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export CSV")),
	SaveJSON: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export JSON")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Tab1, k.Tab2, k.NextPane, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Run, k.Refresh},
		{k.Tab1, k.Tab2, k.PrevTab, k.NextTab, k.NextPane, k.PrevPane},
		{k.Left, k.Right, k.CopyCell, k.CopyJSON, k.CopyCSV, k.SaveCSV, k.SaveJSON},
		{k.Help, k.Quit},
	}
}
