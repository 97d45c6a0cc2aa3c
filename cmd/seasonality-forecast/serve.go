package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/seasonality-forecast/internal/server"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewServeCommand(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast and coefficient API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			op := "main.serve"

			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigPath, err)
			}
			if address != "" {
				srvCfg.Address = address
			}

			logger := a.logger
			if srvCfg.Logging.Level != "" || srvCfg.Logging.Format != "" || srvCfg.Logging.OutputFile != "" {
				logger, err = initializeLogger(srvCfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			listener, err := net.Listen("tcp", srvCfg.Address)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srvCfg.Address, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := server.NewHandler(logger, a.store, srvCfg.UploadSizeBytes(), version)
			logger.Info("starting server",
				zap.String("op", op),
				zap.String("address", listener.Addr().String()),
				zap.Int64("maxUploadSizeBytes", srvCfg.UploadSizeBytes()),
			)
			return runServer(ctx, logger, listener, handler, srvCfg.ShutdownTimeoutDuration())
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides server configuration)")

	return cmd
}

// runServer serves handler on listener until ctx is done, then shuts down
// gracefully within timeout.
func runServer(ctx context.Context, logger *zap.Logger, listener net.Listener, handler http.Handler, timeout time.Duration) error {
	op := "main.runServer"
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.String("op", op))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
