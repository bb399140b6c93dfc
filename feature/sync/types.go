package sync

import "inventory-sync/feature/inventory/models"

// PaxRecord is one pax-type entry of a provider slot record.
type PaxRecord struct {
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Price `json:"price"`
	Min         int          `json:"min"`
	Max         int          `json:"max"`
	Remaining   int          `json:"remaining"`
	IsPrimary   bool         `json:"isPrimary"`
}

// SlotRecord is one bookable time window as delivered by the provider.
// ProviderSlotID is the provider's stable identity for the window and is
// the key the reconciliation engine matches on.
type SlotRecord struct {
	StartDate       string      `json:"startDate"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	ProviderSlotID  string      `json:"providerSlotId"`
	Remaining       int         `json:"remaining"`
	CurrencyCode    string      `json:"currencyCode"`
	VariantID       int         `json:"variantId"`
	PaxAvailability []PaxRecord `json:"paxAvailability"`
}
