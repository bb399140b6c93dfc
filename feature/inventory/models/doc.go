// Package models defines the persisted inventory schema and the read API shapes.
//
// The persisted entities mirror the provider's inventory structure:
// Product → Availability (per calendar date) → TimeSlot → PaxAvailability,
// with PaxType as a shared global lookup. Prices are stored as JSON columns
// so the provider's composite price survives round trips unchanged.
package models
