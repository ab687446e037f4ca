package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	reportCatalog string
	reportFormat  string
)

var reportCmd = &cobra.Command{
	Use:   "report <question>",
	Short: "Answer one question and print the result",
	Long: `Answer one question from a catalog and print the result.

The question is its display text, as printed by the questions command.
Without a question the first question of the catalog is answered.`,
	Example: `  salesdash report --catalog new "Rank the product categories by total profit"
  salesdash report --catalog existing --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportCatalog, "catalog", string(catalog.KindExisting), "Catalog: existing or new")
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json or csv")
}

func runReport(cmd *cobra.Command, args []string) error {
	kind, ok := catalog.ParseKind(reportCatalog)
	if !ok {
		return fmt.Errorf("unknown catalog %q (want existing or new)", reportCatalog)
	}
	switch reportFormat {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", reportFormat)
	}

	cfg, closeLog, err := setup(false)
	if err != nil {
		return err
	}
	defer closeLog()

	svc := newService(cfg)
	defer func() { _ = svc.Disconnect() }()

	question := ""
	if len(args) == 1 {
		question = args[0]
	} else if c, ok := svc.Catalogs().Catalog(kind); ok {
		question = c.First()
	}

	if err := connect(cmd.Context(), svc, cfg); err != nil {
		return err
	}

	r := svc.Select(cmd.Context(), kind, question)
	if err := writeReport(cmd.OutOrStdout(), r, reportFormat); err != nil {
		return err
	}
	return reportErr(r)
}

// reportErr turns prompt and failure instructions into a non-zero exit.
func reportErr(r app.RenderInstruction) error {
	switch r.Kind {
	case app.RenderPrompt, app.RenderError:
		return errors.New(r.Message)
	}
	return nil
}

func writeReport(w io.Writer, r app.RenderInstruction, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if r.Kind != app.RenderTable {
		// The message is carried by the returned error for failures.
		if r.Kind == app.RenderNoData {
			_, err := fmt.Fprintln(w, r.Message)
			return err
		}
		return nil
	}

	if format == "csv" {
		cw := csv.NewWriter(w)
		if err := cw.Write(r.Columns); err != nil {
			return err
		}
		if err := cw.WriteAll(r.Cells()); err != nil {
			return err
		}
		return cw.Error()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(r.Columns...).
		Rows(r.Cells()...)

	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s rows in %dms\n", humanize.Comma(int64(r.RowCount)), r.DurationMs)
	_, err := io.WriteString(w, b.String())
	return err
}
