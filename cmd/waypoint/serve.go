package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpadapter "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the introspection HTTP server",
	Long: `Serves the tour catalog, recorded sessions and Prometheus metrics over HTTP.
With --watch the catalog is reloaded whenever a definition file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		if cmd.Flags().Changed("watch") {
			cfg.Catalog.Watch, _ = cmd.Flags().GetBool("watch")
		}

		cat := catalog.New(cfg.Catalog.Dir, newCompiler(effects.NewFlags()), catalog.WithLogger(logger))
		if err := cat.Load(); err != nil {
			logger.Warn("catalog loaded with problems", "err", err)
		}
		if cfg.Catalog.Watch {
			go func() {
				if err := cat.Watch(ctx, nil); err != nil {
					logger.Error("catalog watch stopped", "err", err)
				}
			}()
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		store, closeStore, err := openStore(ctx, cfg.Store, middleware.NewMetricsMiddleware(reg))
		if err != nil {
			return err
		}
		defer closeStore()

		srv := &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: httpadapter.NewHandler(&httpadapter.Server{
				Tours:   cat,
				Store:   store,
				Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				Logger:  logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "catalog", cfg.Catalog.Dir, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().Bool("watch", false, "Reload the catalog when definition files change")
}
