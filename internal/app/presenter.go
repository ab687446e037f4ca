package app

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/database"
)

// RenderKind tells a render sink what to display.
type RenderKind string

const (
	RenderTable  RenderKind = "table"
	RenderNoData RenderKind = "no_data"
	RenderPrompt RenderKind = "prompt"
	RenderError  RenderKind = "error"
)

// User-facing status texts.
const (
	MsgNoData         = "No data found."
	MsgSelectQuestion = "Please select a valid question."
)

// RenderInstruction is everything a UI needs to draw the outcome of one selection.
// Rows share their backing arrays with the cached query result and are read-only.
type RenderInstruction struct {
	Kind       RenderKind   `json:"kind"`
	Catalog    catalog.Kind `json:"catalog,omitempty"`
	Question   string       `json:"question,omitempty"`
	Title      string       `json:"title,omitempty"`
	Message    string       `json:"message,omitempty"`
	Columns    []string     `json:"columns,omitempty"`
	Rows       [][]any      `json:"rows,omitempty"`
	RowCount   int          `json:"row_count"`
	DurationMs int64        `json:"duration_ms,omitempty"`
	FetchedAt  *time.Time   `json:"fetched_at,omitempty"`
}

// Present converts a query result into a table instruction, or a no-data notice when
// the result has no rows. Columns and rows keep the order the store returned.
func Present(kind catalog.Kind, question string, res *database.QueryResult) RenderInstruction {
	out := RenderInstruction{
		Catalog:  kind,
		Question: question,
		Title:    "Results for: " + question,
	}
	if res != nil {
		out.DurationMs = res.Duration.Milliseconds()
		if !res.FetchedAt.IsZero() {
			fetched := res.FetchedAt
			out.FetchedAt = &fetched
		}
	}

	if res.Empty() {
		out.Kind = RenderNoData
		out.Message = MsgNoData
		return out
	}

	out.Kind = RenderTable
	out.Columns = res.Columns
	out.Rows = res.Rows
	out.RowCount = len(res.Rows)
	return out
}

// Prompt is the instruction for a selection that resolved to no question.
func Prompt(kind catalog.Kind) RenderInstruction {
	return RenderInstruction{
		Kind:    RenderPrompt,
		Catalog: kind,
		Message: MsgSelectQuestion,
	}
}

// Failure is the instruction for a selection whose statement failed.
func Failure(kind catalog.Kind, question string, err error) RenderInstruction {
	return RenderInstruction{
		Kind:     RenderError,
		Catalog:  kind,
		Question: question,
		Title:    "Results for: " + question,
		Message:  fmt.Sprintf("An error occurred: %v", err),
	}
}

// Cells returns the rows formatted for text sinks.
func (r RenderInstruction) Cells() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

// Record returns row i as a column → value map.
func (r RenderInstruction) Record(i int) map[string]any {
	if i < 0 || i >= len(r.Rows) {
		return nil
	}
	rec := make(map[string]any, len(r.Columns))
	for c, name := range r.Columns {
		if c < len(r.Rows[i]) {
			rec[name] = r.Rows[i][c]
		}
	}
	return rec
}

// FormatValue renders one cell. Integral floats print without decimals so years and
// counts stay readable; other floats are rounded to two decimals.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatFloat(val, 'f', 0, 64)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	case float32:
		return FormatValue(float64(val))
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
