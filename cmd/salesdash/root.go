package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/config"
	"github.com/joacominatel/salesdash/internal/database/postgres"
	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the --config flag value
	cfgFile string

	// v carries flag bindings into config.Load
	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "Retail sales analysis dashboard",
	Long: `salesdash answers a fixed catalog of business questions about retail sales
data stored in PostgreSQL. Run it without a command to open the terminal
dashboard, or use serve to publish the same dashboard over HTTP.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ~/.salesdash/config.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: console or json")
	pf.String("dsn", "", "PostgreSQL connection string, overrides the postgres.* settings")

	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("postgres.dsn", pf.Lookup("dsn"))
}

// setup loads the configuration and initializes logging. Interactive sessions log to
// log.file or nowhere, so log lines never tear the terminal UI. The returned func
// closes the log file.
func setup(interactive bool) (*config.Config, func(), error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, &app.ErrConfig{Cause: err}
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, &app.ErrConfig{Cause: fmt.Errorf("open log file: %w", err)}
		}
		out = f
		closeLog = func() { _ = f.Close() }
	case interactive:
		out = io.Discard
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	return cfg, closeLog, nil
}

// newService wires the store, the executor and the catalogs.
func newService(cfg *config.Config) *app.Service {
	driver := postgres.New(postgres.Options{
		MaxConns:        int32(cfg.Postgres.MaxConns),
		ConnectAttempts: cfg.Postgres.ConnectAttempts,
	})

	opts := app.DefaultExecutorOptions()
	opts.CacheTTL = cfg.Cache.TTL
	opts.CacheSize = cfg.Cache.Size
	opts.Timeout = cfg.Query.Timeout

	return app.NewService(driver, catalog.Default(), opts)
}

// connectBudget bounds the startup connection across all attempts.
func connectBudget(cfg *config.Config) time.Duration {
	per := cfg.Postgres.ConnectTimeout
	if per <= 0 {
		per = 10 * time.Second
	}
	return time.Duration(cfg.Postgres.ConnectAttempts) * (per + 2*time.Second)
}

// connect opens the store connection or fails.
func connect(ctx context.Context, svc *app.Service, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, connectBudget(cfg))
	defer cancel()

	logging.Info().Str("database", cfg.Postgres.DisplayString()).Msg("connecting")
	if err := svc.Connect(ctx, cfg.Postgres.DSN()); err != nil {
		return err
	}
	logging.Info().Str("database", svc.DatabaseName()).Msg("connected")
	return nil
}
