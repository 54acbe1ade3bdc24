package domain

// HotelRecord is one row of the brand dataset.
type HotelRecord struct {
	Brand          string `json:"brand"`
	LoyaltyProgram string `json:"loyalty_program"`
	Region         string `json:"region"`
	Country        string `json:"country"`
}

// Dataset is loaded once and only read afterwards, so it is shared between
// conversations without locking.
type Dataset []HotelRecord

// Counts maps a loyalty program to its number of matching records.
// A program without matches has no entry.
type Counts map[string]int

// DimensionScore maps a loyalty program to the points it earned in one dimension.
type DimensionScore map[string]float64
