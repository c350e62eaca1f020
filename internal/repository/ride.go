package repository

import (
	"context"

	"rideshare/internal/domain"
)

// RideMutation applies in-place changes to a ride inside a conditional update.
type RideMutation func(ride *domain.Ride)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByRiderID retrieves all rides requested by a rider.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// GetByDriverID retrieves all rides assigned to a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// GetAll retrieves all rides. Operator use only.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// Claim atomically assigns a driver to a pending, unassigned ride and
	// moves it to accepted. If the ride is no longer pending or already has a
	// driver, ErrPreconditionFailed is returned and nothing is written.
	// Concurrent calls on the same ride see exactly one winner.
	Claim(ctx context.Context, rideID, driverID string) (*domain.Ride, error)

	// UpdateIfStatus applies mutate to the ride only if its stored status
	// still equals expected. Returns ErrPreconditionFailed on a mismatch.
	UpdateIfStatus(ctx context.Context, id string, expected domain.RideStatus, mutate RideMutation) (*domain.Ride, error)
}
