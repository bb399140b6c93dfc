package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"

	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine merges fetched snapshots into the relational store.
//
// A merge fully replaces the slot catalog of one (product, date) pair while
// preserving the system-wide identity of provider slot ids: a slot id seen
// under a different date is re-parented to the new date instead of being
// recreated. The whole merge runs in a single transaction, and a per-date
// lock keeps overlapping scheduler cadences from interleaving their purge
// and create phases on the same pair.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger

	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

// NewEngine creates a reconciliation engine.
func NewEngine(db *gorm.DB, logger *zap.Logger) *Engine {
	return &Engine{
		db:     db,
		logger: logger,
		locks:  make(map[string]*stdsync.Mutex),
	}
}

// lockPair acquires the exclusive lock for one (product, date) pair and
// returns the release function. Entries are never evicted; the key space is
// bounded by products x dates in the sync horizon.
func (e *Engine) lockPair(key string) func() {
	e.mu.Lock()
	m, ok := e.locks[key]
	if !ok {
		m = &stdsync.Mutex{}
		e.locks[key] = m
	}
	e.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Merge reconciles a snapshot into storage for one (product, date) pair.
//
// The date accepts YYYYMMDD or YYYY-MM-DD; an unparseable date fails fast
// with utils.ErrInvalidDate before any storage access. Storage failures roll
// the transaction back and surface as a *MergeError, leaving the previously
// reconciled state of the date untouched.
func (e *Engine) Merge(ctx context.Context, productID uint, date string, snapshot []SlotRecord) error {
	day, err := utils.ParseDate(date)
	if err != nil {
		return err
	}

	snapshot = dedupeSnapshot(snapshot)

	release := e.lockPair(fmt.Sprintf("%d:%s", productID, utils.FormatCompact(day)))
	defer release()

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		avail := models.Availability{ProductID: productID, Date: day}
		if err := tx.FirstOrCreate(&avail, models.Availability{ProductID: productID, Date: day}).Error; err != nil {
			return fmt.Errorf("upsert availability: %w", err)
		}

		// Resolve cross-date identity before purging so a redelivered slot
		// keeps its surrogate id, whether it moved dates or stayed put.
		reuse, err := lookupExistingSlots(tx, snapshot)
		if err != nil {
			return err
		}

		if err := purgeStaleSlots(tx, avail.ID, reuse); err != nil {
			return err
		}

		for _, rec := range snapshot {
			slotID, err := e.writeSlot(tx, avail.ID, rec, reuse)
			if err != nil {
				return err
			}

			for _, pax := range rec.PaxAvailability {
				paxType, err := e.findOrCreatePaxType(tx, pax)
				if err != nil {
					return fmt.Errorf("resolve pax type %q: %w", pax.Type, err)
				}

				pa := models.PaxAvailability{
					TimeSlotID: slotID,
					PaxTypeID:  paxType.ID,
					Price:      pax.Price,
					Min:        pax.Min,
					Max:        pax.Max,
					Remaining:  pax.Remaining,
					IsPrimary:  pax.IsPrimary,
				}
				if err := tx.Create(&pa).Error; err != nil {
					return fmt.Errorf("create pax availability: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return &MergeError{ProductID: productID, Date: date, Err: err}
	}

	e.logger.Info("Reconciled inventory snapshot",
		zap.Uint("product_id", productID),
		zap.String("date", date),
		zap.Int("slots", len(snapshot)))
	return nil
}

// dedupeSnapshot collapses records sharing a provider slot id. The later
// record wins, keeping the first occurrence's position, so a repeated id
// never trips the unique index mid-merge.
func dedupeSnapshot(snapshot []SlotRecord) []SlotRecord {
	if len(snapshot) < 2 {
		return snapshot
	}

	out := make([]SlotRecord, 0, len(snapshot))
	seen := make(map[string]int, len(snapshot))
	for _, rec := range snapshot {
		if i, ok := seen[rec.ProviderSlotID]; ok {
			out[i] = rec
			continue
		}
		seen[rec.ProviderSlotID] = len(out)
		out = append(out, rec)
	}
	return out
}

// lookupExistingSlots finds stored time slots sharing a provider slot id with
// the snapshot, keyed by provider slot id. Matches can belong to any date.
func lookupExistingSlots(tx *gorm.DB, snapshot []SlotRecord) (map[string]models.TimeSlot, error) {
	reuse := make(map[string]models.TimeSlot, len(snapshot))
	if len(snapshot) == 0 {
		return reuse, nil
	}

	providerIDs := make([]string, 0, len(snapshot))
	for _, rec := range snapshot {
		providerIDs = append(providerIDs, rec.ProviderSlotID)
	}

	var existing []models.TimeSlot
	if err := tx.Where("provider_slot_id IN ?", providerIDs).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("lookup provider slot ids: %w", err)
	}
	for _, s := range existing {
		reuse[s.ProviderSlotID] = s
	}
	return reuse, nil
}

// purgeStaleSlots deletes the availability's slots that are absent from the
// incoming snapshot, pax rows first to satisfy the foreign keys. Slots about
// to be reused in place are left alone.
func purgeStaleSlots(tx *gorm.DB, availabilityID uint, reuse map[string]models.TimeSlot) error {
	var current []models.TimeSlot
	if err := tx.Where("availability_id = ?", availabilityID).Find(&current).Error; err != nil {
		return fmt.Errorf("load current slots: %w", err)
	}

	var stale []uint
	for _, s := range current {
		if _, ok := reuse[s.ProviderSlotID]; !ok {
			stale = append(stale, s.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	if err := tx.Where("time_slot_id IN ?", stale).Delete(&models.PaxAvailability{}).Error; err != nil {
		return fmt.Errorf("purge pax availabilities: %w", err)
	}
	if err := tx.Where("id IN ?", stale).Delete(&models.TimeSlot{}).Error; err != nil {
		return fmt.Errorf("purge time slots: %w", err)
	}
	return nil
}

// writeSlot re-parents an existing slot onto the availability or creates a
// fresh one, returning the slot's surrogate id. Reused slots get their pax
// rows wiped first; pax availabilities are always recreated from scratch.
func (e *Engine) writeSlot(tx *gorm.DB, availabilityID uint, rec SlotRecord, reuse map[string]models.TimeSlot) (uint, error) {
	if existing, ok := reuse[rec.ProviderSlotID]; ok {
		if err := tx.Where("time_slot_id = ?", existing.ID).Delete(&models.PaxAvailability{}).Error; err != nil {
			return 0, fmt.Errorf("clear pax availabilities of slot %s: %w", rec.ProviderSlotID, err)
		}

		updates := map[string]any{
			"availability_id": availabilityID,
			"start_time":      rec.StartTime,
			"end_time":        rec.EndTime,
			"variant_id":      rec.VariantID,
			"currency_code":   rec.CurrencyCode,
			"remaining":       rec.Remaining,
		}
		if err := tx.Model(&models.TimeSlot{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return 0, fmt.Errorf("update slot %s: %w", rec.ProviderSlotID, err)
		}

		e.logger.Debug("Re-parented existing time slot", zap.String("provider_slot_id", rec.ProviderSlotID))
		return existing.ID, nil
	}

	slot := models.TimeSlot{
		AvailabilityID: availabilityID,
		ProviderSlotID: rec.ProviderSlotID,
		StartTime:      rec.StartTime,
		EndTime:        rec.EndTime,
		VariantID:      rec.VariantID,
		CurrencyCode:   rec.CurrencyCode,
		Remaining:      rec.Remaining,
	}
	if err := tx.Create(&slot).Error; err != nil {
		return 0, fmt.Errorf("create slot %s: %w", rec.ProviderSlotID, err)
	}

	e.logger.Debug("Created new time slot", zap.String("provider_slot_id", rec.ProviderSlotID))
	return slot.ID, nil
}

// findOrCreatePaxType resolves a pax type by its code, creating it on first
// sight. Name and description are written by the first creator only. A
// duplicate-key collision with a concurrent creator is resolved by a single
// re-read, since the winning row is all we need.
func (e *Engine) findOrCreatePaxType(tx *gorm.DB, rec PaxRecord) (models.PaxType, error) {
	var pt models.PaxType
	err := tx.Where("type = ?", rec.Type).First(&pt).Error
	if err == nil {
		return pt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PaxType{}, err
	}

	pt = models.PaxType{Type: rec.Type, Name: rec.Name, Description: rec.Description}
	err = tx.Create(&pt).Error
	if err == nil {
		return pt, nil
	}
	if !isDuplicateKey(err) {
		return models.PaxType{}, err
	}

	var winner models.PaxType
	if err := tx.Where("type = ?", rec.Type).First(&winner).Error; err != nil {
		return models.PaxType{}, err
	}
	return winner, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
