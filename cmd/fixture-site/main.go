// Book Club Fixture Site
//
// Serves the fixture page the e2e helpers are exercised against. The API
// under /api answers 503, so every scenario has to mock its routes:
//
//	fixture-site --addr :8080
//	BOOKCLUB_BASE_URL=http://localhost:8080/ BOOKCLUB_API_URL=http://localhost:8080/api bookclub-e2e run
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/StacyCash/bookclub-e2e/cmd/fixture-site/server"
	"github.com/StacyCash/bookclub-e2e/internal/logging"
)

func main() {
	var addr, level string

	cmd := &cobra.Command{
		Use:          "fixture-site",
		Short:        "Serve the book club fixture page",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(logging.Options{Level: level, Prefix: "fixture-site"})

			cfg := server.DefaultConfig()
			cfg.Addr = addr
			cfg.Logger = logger
			srv, err := server.NewServer(cfg)
			if err != nil {
				return err
			}
			if _, err := srv.Start(); err != nil {
				return err
			}
			logger.Info("serving", "url", srv.URL(), "api", srv.APIURL())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
