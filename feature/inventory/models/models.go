package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Price is the composite price attached to a pax availability.
// It is persisted as a JSON column, mirroring the provider payload shape.
type Price struct {
	Discount      float64 `json:"discount"`
	FinalPrice    float64 `json:"finalPrice"`
	OriginalPrice float64 `json:"originalPrice"`
	CurrencyCode  string  `json:"currencyCode"`
}

// Value implements driver.Valuer so GORM can write the JSON column.
func (p Price) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner so GORM can read the JSON column.
func (p *Price) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Price{}
		return nil
	default:
		return fmt.Errorf("unsupported price column type %T", value)
	}
}

// Product is an experience known to the system. Products are registered
// before their first sync and are never mutated or deleted here; the ID is
// the provider's external product id.
type Product struct {
	ID uint `gorm:"primaryKey;autoIncrement:false"`
}

// Availability marks that a product has a slot catalog for a calendar date.
// Rows are created on first sync of a (product, date) pair and never deleted,
// even when every slot under them is gone.
type Availability struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_date;not null"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_product_date;not null"`

	Product   Product    `gorm:"foreignKey:ProductID"`
	TimeSlots []TimeSlot `gorm:"foreignKey:AvailabilityID"`
}

// TimeSlot is one bookable time window under an availability.
//
// ProviderSlotID is the provider's stable identity for the window and is
// unique system-wide: when a later snapshot delivers the same id under a
// different date the existing row is re-parented, never duplicated.
type TimeSlot struct {
	ID             uint   `gorm:"primaryKey"`
	AvailabilityID uint   `gorm:"index;not null"`
	ProviderSlotID string `gorm:"size:64;uniqueIndex;not null"`
	StartTime      string `gorm:"size:16"`
	EndTime        string `gorm:"size:16"`
	VariantID      int
	CurrencyCode   string `gorm:"size:8"`
	Remaining      int

	PaxAvailability []PaxAvailability `gorm:"foreignKey:TimeSlotID"`
}

// PaxType is the global lookup of party member categories (adult, child...).
// First writer wins on name and description; no backfill is performed.
type PaxType struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:32;uniqueIndex;not null"`
	Name        string `gorm:"size:128"`
	Description string `gorm:"size:255"`
}

// PaxAvailability is the per-pax-type pricing and capacity of a time slot.
// It is fully owned by its slot: reconciliation deletes and recreates these
// rows wholesale whenever the parent slot is written.
type PaxAvailability struct {
	ID         uint  `gorm:"primaryKey"`
	TimeSlotID uint  `gorm:"index;not null"`
	PaxTypeID  uint  `gorm:"index;not null"`
	Price      Price `gorm:"type:json"`
	Min        int
	Max        int
	Remaining  int
	IsPrimary  bool

	PaxType PaxType `gorm:"foreignKey:PaxTypeID"`
}

// Migrate creates or updates the schema for all inventory entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Product{},
		&Availability{},
		&TimeSlot{},
		&PaxType{},
		&PaxAvailability{},
	)
}
