package cmd

import (
	"fmt"
	"time"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/ratelimit"
	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory/models"
	"inventory-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDays     int
	syncProducts string
)

// syncCmd runs a single sync batch and exits. Useful for seeding a fresh
// database or backfilling after downtime without waiting for the scheduler.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-shot inventory sync batch",
	Long: `Fetches and reconciles inventory for all configured products over the
next N days, then exits.

Examples:
  # Sync the next 7 days
  inventory-sync sync --days 7

  # Seed two months of inventory for one product only
  inventory-sync sync --days 60 --products 14`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 7, "Number of days from today to sync")
	syncCmd.Flags().StringVar(&syncProducts, "products", "", "Comma-separated product ids (defaults to the configured list)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if syncProducts != "" {
		cfg.Sync.ProductIDs = syncProducts
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	limiter := ratelimit.New(cfg.Sync.RequestsPerMinute, time.Minute)
	client := sync.NewClient(cfg.Sync, limiter, logg)
	engine := sync.NewEngine(db, logg)
	orchestrator, err := sync.NewService(cfg.Sync, client, engine, db, logg)
	if err != nil {
		return fmt.Errorf("invalid sync configuration: %w", err)
	}

	dates := utils.DateRange(0, syncDays)
	logg.Info("Running one-shot sync batch", zap.Int("days", syncDays))
	orchestrator.RunBatch(cmd.Context(), dates)
	logg.Info("Sync batch complete")
	return nil
}
