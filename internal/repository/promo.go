package repository

import (
	"context"

	"rideshare/internal/domain"
)

// PromoCodeRepository defines the persistence operations for promo codes and
// their redemption records.
type PromoCodeRepository interface {
	// Create persists a new promo code. Returns ErrDuplicate if a code with
	// the same code string already exists.
	Create(ctx context.Context, promo *domain.PromoCode) error

	// GetByCode retrieves a promo code by its code string.
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)

	// GetByID retrieves a promo code by ID.
	GetByID(ctx context.Context, id string) (*domain.PromoCode, error)

	// GetAll retrieves all promo codes.
	GetAll(ctx context.Context) ([]*domain.PromoCode, error)

	// Update updates an existing promo code.
	Update(ctx context.Context, promo *domain.PromoCode) error

	// Delete removes a promo code.
	Delete(ctx context.Context, id string) error

	// CountRedemptions returns how many times a code has been redeemed, and
	// how many times by the given user.
	CountRedemptions(ctx context.Context, code, userID string) (total int, byUser int, err error)

	// RecordRedemption persists a redemption record.
	RecordRedemption(ctx context.Context, redemption *domain.PromoRedemption) error
}
