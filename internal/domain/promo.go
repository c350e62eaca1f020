package domain

import "time"

// DiscountType represents how a promo code discounts a fare.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// PromoCode is a discount voucher identified by its code string.
type PromoCode struct {
	ID             string
	Code           string
	DiscountType   DiscountType
	DiscountValue  float64
	ExpirationDate time.Time
	UsageLimit     int // total redemptions allowed across all users
	UserUsageLimit int // redemptions allowed per user
	MinRideAmount  float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PromoRedemption records one application of a promo code to a ride.
type PromoRedemption struct {
	ID        string
	Code      string
	RideID    string
	UserID    string
	CreatedAt time.Time
}
