package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/joacominatel/salesdash/internal/web"
	"github.com/spf13/cobra"
)

var serveCORSOrigins []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard to browsers and the report API to scripts.

Endpoints:
  GET /                    HTML dashboard (?tab=existing|new&q=<question>)
  GET /api/v1/questions    Both question catalogs
  GET /api/v1/report       One report (?catalog=existing|new&question=<question>)
  GET /healthz             Store connectivity
  GET /metrics             Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "Origin allowed to call the API (repeatable)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newService(cfg)
	defer func() { _ = svc.Disconnect() }()

	if err := connect(ctx, svc, cfg); err != nil {
		logging.Error().Err(err).Msg("cannot start without the database")
		return err
	}

	srv := web.New(svc, web.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    cfg.Server.RateLimit,
		CORSOrigins:  trimAll(serveCORSOrigins),
	})
	return srv.Run(ctx)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
