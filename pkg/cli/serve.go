package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Gravesjacob778/visualflow-assets/pkg/archive"
	"github.com/Gravesjacob778/visualflow-assets/pkg/cli/config"
	controller "github.com/Gravesjacob778/visualflow-assets/pkg/controller/http"
	"github.com/Gravesjacob778/visualflow-assets/pkg/infra/db"
	"github.com/Gravesjacob778/visualflow-assets/pkg/infra/storage"
	"github.com/Gravesjacob778/visualflow-assets/pkg/usecase"
	"github.com/Gravesjacob778/visualflow-assets/pkg/utils/metrics"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		storageCfg config.Storage
		dbCfg      config.Database
		policyCfg  config.Policy
		sentryCfg  config.Sentry
	)

	flags := serverCfg.Flags()
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, dbCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting vfassets server",
				slog.String("addr", serverCfg.Addr),
				slog.String("storage_root", storageCfg.Root),
				slog.String("db_path", dbCfg.Path),
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			policy, err := policyCfg.Configure()
			if err != nil {
				return err
			}

			blobStore, err := storage.New(storageCfg.Root)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize blob storage")
			}

			repo, err := db.Open(dbCfg.Path)
			if err != nil {
				return goerr.Wrap(err, "failed to open database")
			}
			defer func() { _ = repo.Close() }()

			archiveUC := usecase.NewArchive(
				repo,
				blobStore,
				archive.NewValidator(policy),
				policyCfg.MaxArchiveSize,
				metrics.NewProm("vfassets"),
			)

			server, err := controller.NewServer(
				ctx,
				archiveUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMaxUploadSize(policyCfg.MaxArchiveSize),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
