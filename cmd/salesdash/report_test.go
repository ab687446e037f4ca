package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/catalog"
)

func tableReport() app.RenderInstruction {
	return app.RenderInstruction{
		Kind:     app.RenderTable,
		Catalog:  catalog.KindExisting,
		Question: "Find the total profit per category",
		Title:    "Results for: Find the total profit per category",
		Columns:  []string{"Category", "total_profit"},
		Rows:     [][]any{{"A", float64(150)}, {"B", 30.5}},
		RowCount: 2,
	}
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, tableReport(), "csv"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	want := "Category,total_profit\nA,150\nB,30.50\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, tableReport(), "table"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Results for: Find the total profit per category", "Category", "total_profit", "30.50", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, tableReport(), "json"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	var got struct {
		Kind     string   `json:"kind"`
		Columns  []string `json:"columns"`
		RowCount int      `json:"row_count"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != "table" || got.RowCount != 2 || len(got.Columns) != 2 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteReportNoData(t *testing.T) {
	var buf bytes.Buffer
	r := app.RenderInstruction{Kind: app.RenderNoData, Message: app.MsgNoData}
	if err := writeReport(&buf, r, "table"); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	if strings.TrimSpace(buf.String()) != app.MsgNoData {
		t.Errorf("output = %q", buf.String())
	}
	if err := reportErr(r); err != nil {
		t.Errorf("reportErr(no data) = %v, want nil", err)
	}
}

func TestReportErr(t *testing.T) {
	if err := reportErr(app.Prompt(catalog.KindNew)); err == nil || err.Error() != app.MsgSelectQuestion {
		t.Errorf("reportErr(prompt) = %v", err)
	}
	if err := reportErr(app.RenderInstruction{Kind: app.RenderError, Message: "boom"}); err == nil {
		t.Error("reportErr(error) = nil")
	}
	if err := reportErr(tableReport()); err != nil {
		t.Errorf("reportErr(table) = %v", err)
	}
}

func TestPrintQuestions(t *testing.T) {
	set := catalog.Default()

	var text bytes.Buffer
	if err := printQuestions(&text, set, false); err != nil {
		t.Fatalf("printQuestions: %v", err)
	}
	if !strings.Contains(text.String(), " 1. Find top 10 highest revenue generating products") {
		t.Errorf("text output:\n%s", text.String())
	}

	var js bytes.Buffer
	if err := printQuestions(&js, set, true); err != nil {
		t.Fatalf("printQuestions json: %v", err)
	}
	var got []questionsOutput
	if err := json.Unmarshal(js.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].Kind != catalog.KindExisting || len(got[0].Questions) != 10 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestReportExamplesResolve(t *testing.T) {
	set := catalog.Default()
	for _, line := range strings.Split(reportCmd.Example, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), `"`, 3)
		if len(fields) < 2 {
			continue
		}
		question := fields[1]

		kind := catalog.KindExisting
		if i := strings.Index(fields[0], "--catalog "); i >= 0 {
			name := strings.Fields(fields[0][i+len("--catalog "):])[0]
			k, ok := catalog.ParseKind(name)
			if !ok {
				t.Fatalf("example uses unknown catalog %q", name)
			}
			kind = k
		}

		c, _ := set.Catalog(kind)
		if _, ok := c.Resolve(question); !ok {
			t.Errorf("example question %q is not in the %s catalog", question, kind)
		}
	}
}
