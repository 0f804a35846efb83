package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdantcart/hybridsearch/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search API",
		Long: `Start the HTTP search API.

Builds the catalog indexes on startup, then serves search requests until
interrupted. The snapshot refresher keeps the indexes fresh in the
background.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.engine.IndexCatalog(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("catalog indexed",
		slog.Int("products", stats.ProductCount),
		slog.Duration("build_time", stats.BuildTime))

	a.snapshots.StartRefresher(ctx, a.cfg.Search.IndexRebuildTTL)

	srv := server.New(server.Config{
		Host:            a.cfg.Server.Host,
		Port:            a.cfg.Server.Port,
		ReadTimeout:     a.cfg.Server.ReadTimeout,
		WriteTimeout:    a.cfg.Server.WriteTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	}, a.engine,
		server.WithGraphStore(a.store),
		server.WithEmbedder(a.embedder),
		server.WithSnapshotCache(a.snapshots),
		server.WithLogger(a.logger),
	)

	return srv.ListenAndServe(ctx)
}
