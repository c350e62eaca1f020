package domain

import "time"

// FareRule is a pricing configuration. At most one rule is active at a time.
type FareRule struct {
	ID              string
	BaseFare        float64
	MinFareDistance float64 // km below which the minimum fare applies
	MinFareAmount   float64
	PerKmRate       float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
