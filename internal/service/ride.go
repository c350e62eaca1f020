package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

// RideService handles ride creation and queries.
type RideService struct {
	rideRepo   repository.RideRepository
	fareRules  *FareRuleService
	cacheStore *redis.CacheStore
	notifier   *NotificationService
}

// NewRideService creates a new RideService. The cache store is optional; it
// only backs the status polling endpoint.
func NewRideService(
	rideRepo repository.RideRepository,
	fareRules *FareRuleService,
	cacheStore *redis.CacheStore,
	notifier *NotificationService,
) *RideService {
	return &RideService{
		rideRepo:   rideRepo,
		fareRules:  fareRules,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RiderID    string
	Pickup     domain.GeoPoint
	Dropoff    domain.GeoPoint
	DistanceKm float64
}

// CreateRide prices a new ride against the active fare rule and persists it
// in the pending state. No driver is assigned; drivers claim pending rides
// themselves.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	rule, err := s.fareRules.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	fare, err := ComputeFare(req.DistanceKm, rule)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ride := &domain.Ride{
		ID:            uuid.New().String(),
		RiderID:       req.RiderID,
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		DistanceKm:    req.DistanceKm,
		Fare:          fare,
		Status:        domain.RideStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideRequested(ctx, ride)
	}

	return ride, nil
}

// GetRide retrieves a ride visible to the caller: its rider, its assigned
// driver, or an operator.
func (s *RideService) GetRide(ctx context.Context, rideID string, actor Actor) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && actor.ID != ride.RiderID && actor.ID != ride.DriverID {
		return nil, ErrUnauthorized
	}

	return ride, nil
}

// RideStatusView is the reduced projection served to status polling. It
// carries no location data, so it needs no caller check.
type RideStatusView struct {
	ID            string
	Status        domain.RideStatus
	DriverID      string
	Fare          float64
	PaymentStatus domain.PaymentStatus
}

// GetRideStatus returns the current status projection of a ride. Riders poll
// this while waiting for a claim, so reads go through the cache; transitions
// invalidate the entry.
func (s *RideService) GetRideStatus(ctx context.Context, rideID string) (*RideStatusView, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetRide(ctx, rideID); err == nil && cached != nil {
			return &RideStatusView{
				ID:            cached.ID,
				Status:        domain.RideStatus(cached.Status),
				DriverID:      cached.DriverID,
				Fare:          cached.Fare,
				PaymentStatus: domain.PaymentStatus(cached.PaymentStatus),
			}, nil
		}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetRide(ctx, &redis.CachedRide{
			ID:            ride.ID,
			RiderID:       ride.RiderID,
			DriverID:      ride.DriverID,
			Status:        string(ride.Status),
			Fare:          ride.Fare,
			PaymentStatus: string(ride.PaymentStatus),
		})
	}

	return &RideStatusView{
		ID:            ride.ID,
		Status:        ride.Status,
		DriverID:      ride.DriverID,
		Fare:          ride.Fare,
		PaymentStatus: ride.PaymentStatus,
	}, nil
}

// ListRides returns the rides visible to the caller: riders see their own
// requests, drivers the rides assigned to them, operators everything.
func (s *RideService) ListRides(ctx context.Context, actor Actor) ([]*domain.Ride, error) {
	switch actor.Role {
	case domain.RoleRider:
		return s.rideRepo.GetByRiderID(ctx, actor.ID)
	case domain.RoleDriver:
		return s.rideRepo.GetByDriverID(ctx, actor.ID)
	case domain.RoleAdmin:
		return s.rideRepo.GetAll(ctx)
	}
	return nil, ErrUnauthorized
}

// ListPendingRides returns the pending, unclaimed rides a driver may claim.
func (s *RideService) ListPendingRides(ctx context.Context) ([]*domain.Ride, error) {
	rides, err := s.rideRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*domain.Ride
	for _, ride := range rides {
		if ride.Status == domain.RideStatusPending {
			pending = append(pending, ride)
		}
	}
	return pending, nil
}

// MarkPaid records payment for a completed ride. The rider or an operator
// may record it; payment processing itself happens elsewhere.
func (s *RideService) MarkPaid(ctx context.Context, rideID string, actor Actor) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && actor.ID != ride.RiderID {
		return nil, ErrUnauthorized
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	updated, err := s.rideRepo.UpdateIfStatus(ctx, rideID, domain.RideStatusCompleted, func(r *domain.Ride) {
		r.PaymentStatus = domain.PaymentStatusPaid
	})
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrRideConflict
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRide(ctx, rideID)
	}

	return updated, nil
}

// validateCreateRequest validates the create ride request.
func (s *RideService) validateCreateRequest(req CreateRideRequest) error {
	if req.RiderID == "" {
		return ErrInvalidRiderID
	}
	if req.DistanceKm <= 0 {
		return ErrInvalidDistance
	}
	if !isValidPoint(req.Pickup) {
		return ErrInvalidPickupLocation
	}
	if !isValidPoint(req.Dropoff) {
		return ErrInvalidDropoffLocation
	}
	return nil
}

func isValidPoint(p domain.GeoPoint) bool {
	return isValidLatitude(p.Lat) && isValidLongitude(p.Lng) && p.Address != ""
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
