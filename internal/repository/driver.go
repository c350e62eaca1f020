package repository

import (
	"context"

	"rideshare/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver profile.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByUserID retrieves the driver profile backed by a user account.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// SetVerified updates the verification flag of a driver.
	SetVerified(ctx context.Context, id string, verified bool) error
}
