package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the requested product id is unknown.
var ErrProductNotFound = errors.New("product not found")

// Service serves read-only slot and date queries from the store. It only
// ever reflects the last successfully reconciled state; sync failures are
// invisible here.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new inventory read service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// GetSlots returns the slot catalog of a product for one date. The date
// accepts YYYYMMDD or YYYY-MM-DD and is echoed back verbatim in every slot.
// A date with no reconciled slots yields an empty list, not an error.
func (s *Service) GetSlots(ctx context.Context, productID uint, date string) (*models.SlotsResponse, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}

	if err := s.checkProduct(ctx, productID); err != nil {
		return nil, err
	}

	var avail models.Availability
	err = s.db.WithContext(ctx).
		Preload("TimeSlots.PaxAvailability.PaxType").
		Where("product_id = ? AND date = ?", productID, day).
		First(&avail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SlotsResponse{Slots: []models.Slot{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}

	slots := make([]models.Slot, 0, len(avail.TimeSlots))
	for _, ts := range avail.TimeSlots {
		slot := models.Slot{
			StartTime:       ts.StartTime,
			StartDate:       date,
			Price:           slotPrice(ts),
			Remaining:       ts.Remaining,
			PaxAvailability: make([]models.SlotPax, 0, len(ts.PaxAvailability)),
		}
		for _, pax := range ts.PaxAvailability {
			slot.PaxAvailability = append(slot.PaxAvailability, models.SlotPax{
				Type:        pax.PaxType.Type,
				Name:        pax.PaxType.Name,
				Description: pax.PaxType.Description,
				Price:       toSlotPrice(pax.Price),
				Min:         pax.Min,
				Max:         pax.Max,
				Remaining:   pax.Remaining,
			})
		}
		slots = append(slots, slot)
	}

	return &models.SlotsResponse{Slots: slots}, nil
}

// GetDates returns the dates over the next 60 days on which the product has
// at least one reconciled slot, each carrying its representative price.
func (s *Service) GetDates(ctx context.Context, productID uint) (*models.DatesResponse, error) {
	if err := s.checkProduct(ctx, productID); err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, 60)

	var avails []models.Availability
	err := s.db.WithContext(ctx).
		Preload("TimeSlots.PaxAvailability").
		Where("product_id = ? AND date >= ? AND date < ?", productID, today, horizon).
		Order("date ASC").
		Find(&avails).Error
	if err != nil {
		return nil, fmt.Errorf("load availabilities: %w", err)
	}

	dates := make([]models.DateEntry, 0, len(avails))
	for _, avail := range avails {
		if len(avail.TimeSlots) == 0 {
			continue
		}
		dates = append(dates, models.DateEntry{
			Date:  utils.FormatCompact(avail.Date),
			Price: slotPrice(avail.TimeSlots[0]),
		})
	}

	return &models.DatesResponse{Dates: dates}, nil
}

func (s *Service) checkProduct(ctx context.Context, productID uint) error {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	return nil
}

// slotPrice picks the slot's headline price: the primary pax availability,
// else the first one, else a zero price carrying the slot's currency.
func slotPrice(ts models.TimeSlot) models.SlotPrice {
	for _, pax := range ts.PaxAvailability {
		if pax.IsPrimary {
			return toSlotPrice(pax.Price)
		}
	}
	if len(ts.PaxAvailability) > 0 {
		return toSlotPrice(ts.PaxAvailability[0].Price)
	}
	return models.SlotPrice{CurrencyCode: ts.CurrencyCode}
}

func toSlotPrice(p models.Price) models.SlotPrice {
	return models.SlotPrice{
		FinalPrice:    p.FinalPrice,
		OriginalPrice: p.OriginalPrice,
		CurrencyCode:  p.CurrencyCode,
	}
}
