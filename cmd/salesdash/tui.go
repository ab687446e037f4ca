package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/salesdash/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(true)
	if err != nil {
		return err
	}
	defer closeLog()

	svc := newService(cfg)
	defer func() { _ = svc.Disconnect() }()

	model := tui.NewModel(svc, tui.Options{
		DSN:            cfg.Postgres.DSN(),
		Display:        cfg.Postgres.DisplayString(),
		ConnectTimeout: connectBudget(cfg),
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
