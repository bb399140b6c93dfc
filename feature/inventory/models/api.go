package models

// SlotPrice is the price shape exposed by the read API.
type SlotPrice struct {
	FinalPrice    float64 `json:"finalPrice"`
	OriginalPrice float64 `json:"originalPrice"`
	CurrencyCode  string  `json:"currencyCode"`
}

// SlotPax is one pax-type entry of a slot in the read API.
type SlotPax struct {
	Type        string    `json:"type"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       SlotPrice `json:"price"`
	Min         int       `json:"min,omitempty"`
	Max         int       `json:"max,omitempty"`
	Remaining   int       `json:"remaining"`
}

// Slot is one bookable time window in the read API.
type Slot struct {
	StartTime       string    `json:"startTime"`
	StartDate       string    `json:"startDate"`
	Price           SlotPrice `json:"price"`
	Remaining       int       `json:"remaining"`
	PaxAvailability []SlotPax `json:"paxAvailability"`
}

// SlotsResponse is the payload of GET /experience/{id}/slots.
type SlotsResponse struct {
	Slots []Slot `json:"slots"`
}

// DateEntry is one available date with its representative price.
type DateEntry struct {
	Date  string    `json:"date"`
	Price SlotPrice `json:"price"`
}

// DatesResponse is the payload of GET /experience/{id}/dates.
type DatesResponse struct {
	Dates []DateEntry `json:"dates"`
}
