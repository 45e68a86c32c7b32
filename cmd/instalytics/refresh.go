package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"instalytics/pkg/analytics"
	"instalytics/pkg/logger"
	"instalytics/pkg/storage"
)

var (
	// Refresh command flags
	refreshOwner   string
	refreshWorkers int
	storageType    string
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh <account-ref>...",
	Short: "Refresh analytics for multiple accounts into a snapshot",
	Long: `Refresh analytics for one or more accounts concurrently and merge the
fresh reports into the owner's stored snapshot.

Accounts that fail to resolve or fetch are skipped; the refresh succeeds
as long as at least one account produced a report. Reports for accounts
not named in this run are preserved in the snapshot.`,
	Example: `  # Refresh two accounts into the default owner snapshot
  instalytics refresh natgeo nasa

  # Refresh into a named snapshot with more workers
  instalytics refresh natgeo nasa bbcearth --owner travel-desk --workers 5

  # Persist snapshots in MongoDB
  instalytics refresh natgeo --storage mongodb`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().StringVar(&refreshOwner, "owner", "default", "snapshot owner to merge reports into")
	refreshCmd.Flags().IntVar(&refreshWorkers, "workers", 0, "concurrent refresh workers (default from config)")
	refreshCmd.Flags().StringVar(&storageType, "storage", "", "snapshot storage backend (memory, mongodb, postgres)")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if refreshWorkers > 0 {
		flags["workers"] = refreshWorkers
	}
	if storageType != "" {
		flags["storage"] = storageType
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := applyCredentials(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	defer store.Close()

	svc := newPipelineService(cfg)

	log := logger.GetLogger()
	log.InfoWithFields("Starting multi-account refresh", map[string]interface{}{
		"owner":    refreshOwner,
		"accounts": len(args),
	})

	fresh, successCount := svc.RefreshAll(ctx, args)
	if successCount == 0 {
		return fmt.Errorf("no accounts could be refreshed")
	}

	prior, err := store.LoadSnapshot(ctx, refreshOwner)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	snapshot := &analytics.AccountSnapshot{
		Owner:     refreshOwner,
		Accounts:  analytics.MergeAnalytics(prior.Accounts, fresh),
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.InfoWithFields("Refresh completed", map[string]interface{}{
		"owner":     refreshOwner,
		"requested": len(args),
		"succeeded": successCount,
		"tracked":   len(snapshot.Accounts),
	})

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}
