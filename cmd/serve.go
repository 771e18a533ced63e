package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groomlane/concierge/internal/server"
	"github.com/groomlane/concierge/internal/support"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the concierge HTTP API",
	Long: `Run the HTTP API consumed by the storefront chat widget and admin console.

Endpoints:
  POST   /api/chat            answer a customer question
  POST   /api/knowledge       ingest a knowledge chunk
  DELETE /api/knowledge/{id}  remove a knowledge chunk
  GET    /api/status          store statistics
  GET    /health              liveness probe`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	service, err := support.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create answering service: %w", err)
	}
	defer service.Close()

	srv := server.NewServer(service, service.Embedder, service.Store, &cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}
