package service

import (
	"context"
	"errors"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

const claimLockTTL = 10 * time.Second // Guard ride during claim

// Actor identifies the caller of a lifecycle operation. Identity is verified
// upstream; the lifecycle only checks structural eligibility.
type Actor struct {
	ID   string
	Role domain.Role
}

// transitions is the legal status progression. Anything not listed here is
// rejected unless an operator override applies.
var transitions = map[domain.RideStatus][]domain.RideStatus{
	domain.RideStatusPending:  {domain.RideStatusAccepted, domain.RideStatusCancelled},
	domain.RideStatusAccepted: {domain.RideStatusOngoing, domain.RideStatusCancelled},
	domain.RideStatusOngoing:  {domain.RideStatusCompleted},
}

func transitionAllowed(from, to domain.RideStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RideLifecycle validates and applies every ride status transition,
// including the claim protocol.
type RideLifecycle struct {
	rideRepo   repository.RideRepository
	lockStore  redis.LockStoreInterface
	cacheStore *redis.CacheStore
	notifier   *NotificationService
}

// NewRideLifecycle creates a new RideLifecycle. The lock and cache stores are
// optional; without them the database conditional update alone serializes
// concurrent callers.
func NewRideLifecycle(
	rideRepo repository.RideRepository,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	notifier *NotificationService,
) *RideLifecycle {
	return &RideLifecycle{
		rideRepo:   rideRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// Claim assigns a driver to a pending ride. When two claims race on the same
// ride, exactly one succeeds; the loser gets ErrRideAlreadyClaimed. The Redis
// lock is a fast path that sheds doomed claims before they reach the
// database; correctness comes from the guarded write in the repository.
func (l *RideLifecycle) Claim(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if l.lockStore != nil {
		locked, err := l.lockStore.AcquireRideLock(ctx, rideID, claimLockTTL)
		if err == nil {
			if !locked {
				return nil, ErrRideAlreadyClaimed
			}
			defer func() { _ = l.lockStore.ReleaseRideLock(ctx, rideID) }()
		}
		// On lock store errors fall through to the conditional write.
	}

	ride, err := l.rideRepo.Claim(ctx, rideID, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, l.classifyClaimFailure(ctx, rideID)
		}
		return nil, err
	}

	l.invalidateRideCache(ctx, rideID)

	if l.notifier != nil {
		_ = l.notifier.NotifyRideClaimed(ctx, ride)
	}

	return ride, nil
}

// classifyClaimFailure turns a lost conditional claim into the error the
// caller can act on.
func (l *RideLifecycle) classifyClaimFailure(ctx context.Context, rideID string) error {
	ride, err := l.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.DriverID != "" {
		return ErrRideAlreadyClaimed
	}
	// Unassigned but not pending: the ride was cancelled or overridden.
	return ErrInvalidTransition
}

// TransitionRequest contains the parameters for a status transition.
type TransitionRequest struct {
	RideID       string
	Actor        Actor
	Target       domain.RideStatus
	CancelReason string
}

// Transition moves a ride to the target status, enforcing the transition
// table and the caller's structural eligibility. Operators may override the
// table, but no override leaves a terminal state, and the driver-assignment
// invariant holds across every path.
func (l *RideLifecycle) Transition(ctx context.Context, req TransitionRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if !req.Target.IsValid() {
		return nil, ErrInvalidTransition
	}

	// A driver moving a ride to accepted is a claim.
	if req.Target == domain.RideStatusAccepted && req.Actor.Role == domain.RoleDriver {
		return l.Claim(ctx, req.RideID, req.Actor.ID)
	}

	ride, err := l.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	isOverride := req.Actor.Role == domain.RoleAdmin && !transitionAllowed(ride.Status, req.Target)

	if ride.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	if !isOverride {
		if !transitionAllowed(ride.Status, req.Target) {
			return nil, ErrInvalidTransition
		}
		if err := l.authorize(ride, req.Actor, req.Target); err != nil {
			return nil, err
		}
	}

	// No path, table or override, may move an unassigned ride into a
	// driver-bearing status. Accepted is reached through Claim.
	if requiresDriver(req.Target) && ride.DriverID == "" {
		return nil, ErrInvalidTransition
	}

	updated, err := l.rideRepo.UpdateIfStatus(ctx, req.RideID, ride.Status, func(r *domain.Ride) {
		r.Status = req.Target
		if !requiresDriver(req.Target) {
			r.DriverID = ""
		}
		if req.Target == domain.RideStatusCancelled {
			r.CancelledAt = time.Now()
			r.CancelReason = req.CancelReason
		}
	})
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrRideConflict
		}
		return nil, err
	}

	l.invalidateRideCache(ctx, req.RideID)

	if l.notifier != nil {
		_ = l.notifier.NotifyRideTransition(ctx, updated)
	}

	return updated, nil
}

// requiresDriver reports whether a status implies an assigned driver.
func requiresDriver(status domain.RideStatus) bool {
	switch status {
	case domain.RideStatusAccepted, domain.RideStatusOngoing, domain.RideStatusCompleted:
		return true
	}
	return false
}

// authorize checks which roles are structurally eligible for a transition.
func (l *RideLifecycle) authorize(ride *domain.Ride, actor Actor, target domain.RideStatus) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}

	switch target {
	case domain.RideStatusOngoing, domain.RideStatusCompleted:
		// Only the assigned driver may start or complete the ride.
		if actor.Role == domain.RoleDriver && actor.ID != "" && actor.ID == ride.DriverID {
			return nil
		}
	case domain.RideStatusCancelled:
		// The rider or the assigned driver may cancel.
		if actor.ID != "" && (actor.ID == ride.RiderID || actor.ID == ride.DriverID) {
			return nil
		}
	}
	return ErrUnauthorized
}

func (l *RideLifecycle) invalidateRideCache(ctx context.Context, rideID string) {
	if l.cacheStore == nil {
		return
	}
	_ = l.cacheStore.InvalidateRide(ctx, rideID)
}
