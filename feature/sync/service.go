package sync

import (
	"context"
	"time"

	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fetcher retrieves one (product, date) snapshot from the provider.
type Fetcher interface {
	FetchInventory(ctx context.Context, productID uint, date string) ([]SlotRecord, error)
}

// Merger reconciles one (product, date) snapshot into storage.
type Merger interface {
	Merge(ctx context.Context, productID uint, date string, snapshot []SlotRecord) error
}

// Service orchestrates sync batches: for every configured product and every
// date in the batch it fetches the provider snapshot and merges it into
// storage. Pairs fail independently; one bad date never aborts the batch.
type Service struct {
	fetcher    Fetcher
	merger     Merger
	db         *gorm.DB
	logger     *zap.Logger
	productIDs []uint
	rules      map[uint][]time.Weekday
}

// NewService creates the sync orchestrator from configuration.
func NewService(cfg Config, fetcher Fetcher, merger Merger, db *gorm.DB, logger *zap.Logger) (*Service, error) {
	ids, err := cfg.ParseProductIDs()
	if err != nil {
		return nil, err
	}
	rules, err := cfg.ParseProductRules()
	if err != nil {
		return nil, err
	}

	return &Service{
		fetcher:    fetcher,
		merger:     merger,
		db:         db,
		logger:     logger,
		productIDs: ids,
		rules:      rules,
	}, nil
}

// RunBatch processes every configured product over the given dates
// sequentially. Products that fail to fetch or merge for a date are logged
// and skipped; the loop always advances to the next date.
func (s *Service) RunBatch(ctx context.Context, dates []string) {
	if err := s.ensureProducts(ctx); err != nil {
		s.logger.Error("Failed to register products", zap.Error(err))
		return
	}

	for _, productID := range s.productIDs {
		for _, date := range dates {
			if ctx.Err() != nil {
				return
			}
			if !s.dateAllowed(productID, date) {
				continue
			}

			snapshot, err := s.fetcher.FetchInventory(ctx, productID, date)
			if err != nil {
				s.logger.Error("Inventory fetch failed",
					zap.Uint("product_id", productID),
					zap.String("date", date),
					zap.Error(err))
				continue
			}

			if err := s.merger.Merge(ctx, productID, date, snapshot); err != nil {
				s.logger.Error("Inventory merge failed",
					zap.Uint("product_id", productID),
					zap.String("date", date),
					zap.Error(err))
			}
		}
	}
}

// ensureProducts registers the configured product rows if they don't exist.
// Products are identity-only and never mutated afterwards.
func (s *Service) ensureProducts(ctx context.Context) error {
	for _, id := range s.productIDs {
		p := models.Product{ID: id}
		if err := s.db.WithContext(ctx).FirstOrCreate(&p, models.Product{ID: id}).Error; err != nil {
			return err
		}
	}
	return nil
}

// dateAllowed applies the optional per-product weekday rules. A product
// without a rule is synced for every date; an unparseable date is let
// through so the merge can reject it properly.
func (s *Service) dateAllowed(productID uint, date string) bool {
	days, ok := s.rules[productID]
	if !ok || len(days) == 0 {
		return true
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return true
	}
	for _, d := range days {
		if day.Weekday() == d {
			return true
		}
	}
	return false
}
