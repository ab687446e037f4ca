package preview

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/salesdash/internal/tui/theme"
)

// SQL keywords highlighted in the preview.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"join": true, "inner": true, "outer": true, "left": true, "right": true,
	"cross": true, "on": true, "not": true, "in": true, "is": true,
	"null": true, "like": true, "order": true, "by": true, "group": true,
	"having": true, "limit": true, "offset": true, "as": true, "distinct": true,
	"count": true, "sum": true, "avg": true, "min": true, "max": true,
	"between": true, "exists": true, "case": true, "when": true, "then": true,
	"else": true, "end": true, "union": true, "all": true, "asc": true,
	"desc": true, "with": true, "extract": true, "year": true, "nullif": true,
	"round": true, "cast": true, "over": true, "partition": true, "true": true,
	"false": true, "ilike": true, "numeric": true,
}

type tokenKind int

const (
	tokenPlain tokenKind = iota
	tokenKeyword
	tokenLiteral
)

type token struct {
	text string
	kind tokenKind
}

// tokenize splits a statement into keywords, quoted literals and everything else.
// Concatenating the token texts yields the input unchanged.
func tokenize(sql string) []token {
	var (
		out   []token
		cur   strings.Builder
		word  strings.Builder
		quote rune
	)

	flushPlain := func() {
		if cur.Len() > 0 {
			out = append(out, token{text: cur.String(), kind: tokenPlain})
			cur.Reset()
		}
	}
	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		if sqlKeywords[strings.ToLower(w)] {
			flushPlain()
			out = append(out, token{text: w, kind: tokenKeyword})
			return
		}
		cur.WriteString(w)
	}

	for _, ch := range sql {
		switch {
		case quote != 0:
			cur.WriteRune(ch)
			if ch == quote {
				quote = 0
				out = append(out, token{text: cur.String(), kind: tokenLiteral})
				cur.Reset()
			}
		case ch == '\'':
			flushWord()
			flushPlain()
			quote = ch
			cur.WriteRune(ch)
		case unicode.IsLetter(ch) || ch == '_' || (word.Len() > 0 && unicode.IsDigit(ch)):
			word.WriteRune(ch)
		default:
			flushWord()
			cur.WriteRune(ch)
		}
	}

	if quote != 0 {
		out = append(out, token{text: cur.String(), kind: tokenLiteral})
		cur.Reset()
	}
	flushWord()
	flushPlain()
	return out
}

// Highlight renders a statement with keywords and literals styled.
func Highlight(sql string) string {
	var b strings.Builder
	for _, t := range tokenize(sql) {
		switch t.kind {
		case tokenKeyword:
			b.WriteString(theme.StyleKeyword.Render(t.text))
		case tokenLiteral:
			b.WriteString(theme.StyleLiteral.Render(t.text))
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}

// Model is the read-only SQL preview of the highlighted question.
type Model struct {
	question  string
	statement string
	lines     []string
	scrollY   int
	width     int
	height    int
	focused   bool
}

// New creates an empty preview.
func New() Model {
	return Model{}
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

// SetStatement shows the statement of question. Setting the same question again
// keeps the scroll position.
func (m *Model) SetStatement(question, statement string) {
	if question == m.question && statement == m.statement {
		return
	}
	m.question = question
	m.statement = statement
	m.lines = strings.Split(strings.TrimSpace(statement), "\n")
	m.scrollY = 0
}

// Statement returns the statement currently shown.
func (m Model) Statement() string {
	return m.statement
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the preview when focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			if m.scrollY < len(m.lines)-1 {
				m.scrollY++
			}
		}
	}
	return m, nil
}

// View renders the preview.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("SQL")
	if m.statement == "" {
		return title + "\n" + theme.StyleMuted.Render("  No question highlighted")
	}

	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}

	var b strings.Builder
	b.WriteString(title)
	for i := m.scrollY; i < len(m.lines) && i < m.scrollY+visible; i++ {
		b.WriteString("\n  ")
		b.WriteString(Highlight(m.lines[i]))
	}
	return b.String()
}
