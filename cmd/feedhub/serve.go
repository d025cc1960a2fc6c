package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"feedhub/internal/aggregator"
	"feedhub/internal/httpapi"
	"feedhub/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the feed API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.db.Close()

			svc := aggregator.NewService(
				postgres.NewAccountStore(a.db),
				a.registry,
				a.cfg.Aggregator.PageSize,
				a.logger,
			)

			// upstream calls are bounded by api.timeout; leave room for the merge
			server := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           httpapi.NewRouter(svc, a.logger, 2*a.cfg.API.Timeout),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting http server",
					"addr", a.cfg.HTTP.Addr,
					"providers", a.registry.Names(),
				)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("http server error", "error", err)
					return err
				}
				return nil
			case <-ctx.Done():
				a.logger.Info("received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown", "error", err)
				return err
			}
			a.logger.Info("http server stopped")
			return nil
		},
	}
}
