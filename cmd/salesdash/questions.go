package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/spf13/cobra"
)

var questionsJSON bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questions of both catalogs",
	Args:  cobra.NoArgs,
	RunE:  runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "Print as JSON")
}

type questionsOutput struct {
	Kind      catalog.Kind `json:"kind"`
	Title     string       `json:"title"`
	Questions []string     `json:"questions"`
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	return printQuestions(cmd.OutOrStdout(), catalog.Default(), questionsJSON)
}

func printQuestions(w io.Writer, set *catalog.Set, asJSON bool) error {
	if asJSON {
		out := make([]questionsOutput, 0, len(set.All()))
		for _, c := range set.All() {
			out = append(out, questionsOutput{Kind: c.Kind(), Title: c.Title(), Questions: c.Questions()})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i, c := range set.All() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", c.Title(), c.Kind())
		for n, q := range c.Questions() {
			fmt.Fprintf(w, "  %2d. %s\n", n+1, q)
		}
	}
	return nil
}
