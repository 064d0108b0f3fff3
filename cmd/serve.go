package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookmatch/internal/config"
	"github.com/lehigh-university-libraries/bookmatch/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the book analysis API",
		Long: `Starts the analysis API on the configured port.

Routes:
  POST /api/analyze-book   analysis with the configured or requested template
  POST /api/rate-book      compact rating
  POST /api/describe-book  detailed analysis including the description used
  GET  /healthcheck
  GET  /metrics`,
		Example: `  # Start server on PORT or the default 3001
  bookmatch serve

  # Start server on custom port
  bookmatch serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			svc, cleanup, err := newService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.NewRouter(handlers.New(svc), cfg.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bookmatch API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
