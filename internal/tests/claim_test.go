package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

func pendingRide(id string) *domain.Ride {
	return &domain.Ride{
		ID:      id,
		RiderID: "rider-1",
		Status:  domain.RideStatusPending,
	}
}

func TestClaim_AssignsDriverAndAccepts(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(pendingRide("ride-1"))
	lifecycle := service.NewRideLifecycle(rideRepo, NewMockLockStore(), nil, nil)

	ride, err := lifecycle.Claim(context.Background(), "ride-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED status, got %s", ride.Status)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", ride.DriverID)
	}
}

func TestClaim_ValidatesIDs(t *testing.T) {
	lifecycle := service.NewRideLifecycle(NewMockRideRepository(), nil, nil, nil)
	ctx := context.Background()

	if _, err := lifecycle.Claim(ctx, "", "driver-1"); err != service.ErrInvalidRideID {
		t.Errorf("expected ErrInvalidRideID, got %v", err)
	}
	if _, err := lifecycle.Claim(ctx, "ride-1", ""); err != service.ErrInvalidDriverID {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}

func TestClaim_SecondClaimLoses(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(pendingRide("ride-1"))
	lifecycle := service.NewRideLifecycle(rideRepo, NewMockLockStore(), nil, nil)
	ctx := context.Background()

	if _, err := lifecycle.Claim(ctx, "ride-1", "driver-1"); err != nil {
		t.Fatalf("unexpected error on first claim: %v", err)
	}

	_, err := lifecycle.Claim(ctx, "ride-1", "driver-2")
	if err != service.ErrRideAlreadyClaimed {
		t.Errorf("expected ErrRideAlreadyClaimed, got %v", err)
	}

	// The winning assignment is untouched.
	if rideRepo.GetRide("ride-1").DriverID != "driver-1" {
		t.Errorf("expected driver-1 to keep the ride, got %s", rideRepo.GetRide("ride-1").DriverID)
	}
}

func TestClaim_ConcurrentClaimsExactlyOneWins(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(pendingRide("ride-1"))
	// No lock store: the conditional write alone must serialize the race.
	lifecycle := service.NewRideLifecycle(rideRepo, nil, nil, nil)

	const numDrivers = 20
	results := make(chan error, numDrivers)

	var wg sync.WaitGroup
	for i := 0; i < numDrivers; i++ {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			_, err := lifecycle.Claim(context.Background(), "ride-1", driverID)
			results <- err
		}(fmt.Sprintf("driver-%d", i))
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrRideAlreadyClaimed):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly one winning claim, got %d", wins)
	}
	if losses != numDrivers-1 {
		t.Errorf("expected %d losing claims, got %d", numDrivers-1, losses)
	}

	ride := rideRepo.GetRide("ride-1")
	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED status, got %s", ride.Status)
	}
	if ride.DriverID == "" {
		t.Error("expected a driver to be assigned")
	}
}

func TestClaim_ConcurrentClaimsWithLockStore(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(pendingRide("ride-1"))
	lifecycle := service.NewRideLifecycle(rideRepo, NewMockLockStore(), nil, nil)

	const numDrivers = 20
	results := make(chan error, numDrivers)

	var wg sync.WaitGroup
	for i := 0; i < numDrivers; i++ {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			_, err := lifecycle.Claim(context.Background(), "ride-1", driverID)
			results <- err
		}(fmt.Sprintf("driver-%d", i))
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, service.ErrRideAlreadyClaimed) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly one winning claim, got %d", wins)
	}
}

func TestClaim_CancelledRideIsNotClaimable(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{
		ID:      "ride-1",
		RiderID: "rider-1",
		Status:  domain.RideStatusCancelled,
	})
	lifecycle := service.NewRideLifecycle(rideRepo, NewMockLockStore(), nil, nil)

	_, err := lifecycle.Claim(context.Background(), "ride-1", "driver-1")
	if err != service.ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestClaim_UnknownRideReturnsNotFound(t *testing.T) {
	lifecycle := service.NewRideLifecycle(NewMockRideRepository(), NewMockLockStore(), nil, nil)

	_, err := lifecycle.Claim(context.Background(), "nonexistent", "driver-1")
	if err == nil {
		t.Error("expected error for nonexistent ride")
	}
}

func TestClaim_LockStoreErrorFallsThroughToDatabase(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(pendingRide("ride-1"))
	lockStore := NewMockLockStore()
	lockStore.AcquireError = errors.New("redis unavailable")
	lifecycle := service.NewRideLifecycle(rideRepo, lockStore, nil, nil)

	ride, err := lifecycle.Claim(context.Background(), "ride-1", "driver-1")
	if err != nil {
		t.Fatalf("expected claim to succeed without the lock, got %v", err)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", ride.DriverID)
	}
}
