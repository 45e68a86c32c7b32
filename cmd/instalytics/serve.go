package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"instalytics/internal/server"
	"instalytics/pkg/logger"
	"instalytics/pkg/storage"
)

var (
	// Serve command flags
	servePort        int
	serveStorageType string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics HTTP API",
	Long: `Run the analytics pipeline as an HTTP service.

Endpoints:
  POST /api/v1/analytics          analyze one account
  POST /api/v1/analytics/refresh  refresh accounts into an owner snapshot
  GET  /api/v1/accounts/:owner    read an owner's snapshot
  GET  /health                    liveness check`,
	Example: `  # Serve on the default port with in-memory snapshots
  instalytics serve

  # Serve on port 9000 backed by PostgreSQL
  instalytics serve --port 9000 --storage postgres`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP listen port (default from config)")
	serveCmd.Flags().StringVar(&serveStorageType, "storage", "", "snapshot storage backend (memory, mongodb, postgres)")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if servePort > 0 {
		flags["port"] = servePort
	}
	if serveStorageType != "" {
		flags["storage"] = serveStorageType
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := applyCredentials(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	defer store.Close()

	log := logger.GetLogger()
	svc := newPipelineService(cfg)
	srv := server.New(cfg, svc, store, log)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	log.Info("Server shut down cleanly")
	return nil
}
