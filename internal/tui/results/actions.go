package results

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/app"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

func (m Model) table() (app.RenderInstruction, bool) {
	if m.report == nil || m.report.Kind != app.RenderTable {
		return app.RenderInstruction{}, false
	}
	return *m.report, true
}

func (m Model) cellValue() string {
	if m.cursorY < 0 || m.cursorY >= len(m.cells) {
		return ""
	}
	row := m.cells[m.cursorY]
	if m.cursorX < 0 || m.cursorX >= len(row) {
		return ""
	}
	return row[m.cursorX]
}

// --- Copy ---

func copyCmd(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return StatusNotifyMsg{Message: "Copy failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: done}
	}
}

func (m Model) copyCellCmd() tea.Cmd {
	val := m.cellValue()
	if val == "" {
		return notify("Nothing to copy")
	}
	return copyCmd(val, "Copied: "+truncateStatus(val, 40))
}

func (m Model) copyRowJSONCmd() tea.Cmd {
	r, ok := m.table()
	if !ok || m.cursorY >= len(r.Rows) {
		return notify("No row to copy")
	}
	row, err := rowToJSON(r.Columns, r.Rows[m.cursorY])
	if err != nil {
		return notify("Copy failed: " + err.Error())
	}
	return copyCmd(row, "Copied row as JSON")
}

func (m Model) copyRowCSVCmd() tea.Cmd {
	r, ok := m.table()
	if !ok || m.cursorY >= len(m.cells) {
		return notify("No row to copy")
	}
	var b strings.Builder
	if err := writeCSV(&b, r.Columns, m.cells[m.cursorY:m.cursorY+1]); err != nil {
		return notify("Copy failed: " + err.Error())
	}
	return copyCmd(b.String(), "Copied row as CSV")
}

// --- Export ---

func (m Model) exportJSONCmd() tea.Cmd {
	r, ok := m.table()
	if !ok {
		return notify("Nothing to export")
	}
	dir := m.exportDir
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := writeJSON(&buf, r.Columns, r.Rows); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		path, err := writeExport(dir, "json", buf.Bytes())
		if err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(r.Rows), path)}
	}
}

func (m Model) exportCSVCmd() tea.Cmd {
	r, ok := m.table()
	if !ok {
		return notify("Nothing to export")
	}
	cells := m.cells
	dir := m.exportDir
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := writeCSV(&buf, r.Columns, cells); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		path, err := writeExport(dir, "csv", buf.Bytes())
		if err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(cells), path)}
	}
}

func writeExport(dir, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("salesdash_export_%s.%s", time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// --- Helpers ---

func notify(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusNotifyMsg{Message: msg}
	}
}

func writeCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON writes rows as an array of objects, keys in column order.
func writeJSON(w io.Writer, columns []string, rows [][]any) error {
	var b strings.Builder
	b.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		obj, err := rowToJSON(columns, row)
		if err != nil {
			return err
		}
		b.WriteString("\n  ")
		b.WriteString(obj)
	}
	if len(rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// rowToJSON preserves column order unlike map marshaling.
func rowToJSON(columns []string, row []any) (string, error) {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, err := json.Marshal(col)
		if err != nil {
			return "", err
		}
		b.Write(key)
		b.WriteString(": ")

		var v any
		if i < len(row) {
			v = row[i]
		}
		val, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col, err)
		}
		b.Write(val)
	}
	b.WriteString("}")
	return b.String(), nil
}

func truncateStatus(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
