package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file and stored password",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration without credentials",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Store the database password in the OS keyring",
	Long: `Read the database password from standard input and store it in the OS
keyring under the configured postgres.user. Stored passwords are used whenever
no password or DSN is configured.`,
	Args: cobra.NoArgs,
	RunE: runConfigPassword,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configPasswordCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	written, err := config.Save(config.Default(), path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(false)
	if err != nil {
		return err
	}
	defer closeLog()

	shown := *cfg
	shown.Postgres.URL = ""
	shown.Postgres.Password = ""

	out := struct {
		Database string         `json:"database"`
		Config   *config.Config `json:"config"`
	}{
		Database: cfg.Postgres.DisplayString(),
		Config:   &shown,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runConfigPassword(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(false)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Postgres.Username == "" {
		return errors.New("postgres.user is not set")
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", cfg.Postgres.Username)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}

	if err := config.SavePassword(cfg.Postgres.Username, password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nStored in the keyring as %s/%s\n", config.KeyringService, cfg.Postgres.Username)
	return nil
}
