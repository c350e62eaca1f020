package tests

import (
	"context"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

func validPickup() domain.GeoPoint {
	return domain.GeoPoint{Lat: 12.9716, Lng: 77.5946, Address: "MG Road"}
}

func validDropoff() domain.GeoPoint {
	return domain.GeoPoint{Lat: 13.0827, Lng: 80.2707, Address: "Marina Beach"}
}

func newRideServiceWithActiveRule(rideRepo *MockRideRepository) *service.RideService {
	fareRepo := NewMockFareRuleRepository()
	fareRepo.AddRule(standardFareRule())
	fareService := service.NewFareRuleService(fareRepo, nil)
	return service.NewRideService(rideRepo, fareService, nil, nil)
}

func TestCreateRide_ValidatesRiderID(t *testing.T) {
	rideService := newRideServiceWithActiveRule(NewMockRideRepository())

	_, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:    "", // Empty rider ID.
		Pickup:     validPickup(),
		Dropoff:    validDropoff(),
		DistanceKm: 5,
	})

	if err != service.ErrInvalidRiderID {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}
}

func TestCreateRide_ValidatesDistance(t *testing.T) {
	rideService := newRideServiceWithActiveRule(NewMockRideRepository())

	testCases := []struct {
		name     string
		distance float64
	}{
		{"zero", 0},
		{"negative", -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
				RiderID:    "rider-1",
				Pickup:     validPickup(),
				Dropoff:    validDropoff(),
				DistanceKm: tc.distance,
			})
			if err != service.ErrInvalidDistance {
				t.Errorf("expected ErrInvalidDistance for distance=%f, got %v", tc.distance, err)
			}
		})
	}
}

func TestCreateRide_ValidatesPickupLocation(t *testing.T) {
	rideService := newRideServiceWithActiveRule(NewMockRideRepository())

	testCases := []struct {
		name   string
		pickup domain.GeoPoint
	}{
		{"latitude too low", domain.GeoPoint{Lat: -91, Lng: 77, Address: "A"}},
		{"latitude too high", domain.GeoPoint{Lat: 91, Lng: 77, Address: "A"}},
		{"longitude too low", domain.GeoPoint{Lat: 12, Lng: -181, Address: "A"}},
		{"longitude too high", domain.GeoPoint{Lat: 12, Lng: 181, Address: "A"}},
		{"missing address", domain.GeoPoint{Lat: 12, Lng: 77}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
				RiderID:    "rider-1",
				Pickup:     tc.pickup,
				Dropoff:    validDropoff(),
				DistanceKm: 5,
			})
			if err != service.ErrInvalidPickupLocation {
				t.Errorf("expected ErrInvalidPickupLocation, got %v", err)
			}
		})
	}
}

func TestCreateRide_ValidatesDropoffLocation(t *testing.T) {
	rideService := newRideServiceWithActiveRule(NewMockRideRepository())

	_, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:    "rider-1",
		Pickup:     validPickup(),
		Dropoff:    domain.GeoPoint{Lat: -100, Lng: 77, Address: "A"}, // Invalid.
		DistanceKm: 5,
	})

	if err != service.ErrInvalidDropoffLocation {
		t.Errorf("expected ErrInvalidDropoffLocation, got %v", err)
	}
}

func TestCreateRide_StartsPendingWithComputedFare(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideService := newRideServiceWithActiveRule(rideRepo)

	ride, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:    "rider-1",
		Pickup:     validPickup(),
		Dropoff:    validDropoff(),
		DistanceKm: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected PENDING status, got %s", ride.Status)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver on a new ride, got %s", ride.DriverID)
	}
	if ride.Fare != 300 {
		t.Errorf("expected fare 300, got %f", ride.Fare)
	}
	if ride.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected PENDING payment, got %s", ride.PaymentStatus)
	}

	saved := rideRepo.GetRide(ride.ID)
	if saved == nil {
		t.Fatal("ride not persisted")
	}
	if saved.RiderID != "rider-1" {
		t.Errorf("expected rider-1, got %s", saved.RiderID)
	}
}

func TestCreateRide_ShortRideGetsMinimumFare(t *testing.T) {
	rideService := newRideServiceWithActiveRule(NewMockRideRepository())

	ride, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:    "rider-1",
		Pickup:     validPickup(),
		Dropoff:    validDropoff(),
		DistanceKm: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Fare != 200 {
		t.Errorf("expected minimum fare 200, got %f", ride.Fare)
	}
}

func TestCreateRide_FailsWithoutActiveFareRule(t *testing.T) {
	fareService := service.NewFareRuleService(NewMockFareRuleRepository(), nil)
	rideService := service.NewRideService(NewMockRideRepository(), fareService, nil, nil)

	_, err := rideService.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:    "rider-1",
		Pickup:     validPickup(),
		Dropoff:    validDropoff(),
		DistanceKm: 5,
	})

	if err != service.ErrNoActiveFareRule {
		t.Errorf("expected ErrNoActiveFareRule, got %v", err)
	}
}

func TestGetRide_VisibleToRiderDriverAndAdmin(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{
		ID:       "ride-1",
		RiderID:  "rider-1",
		DriverID: "driver-1",
		Status:   domain.RideStatusAccepted,
	})
	rideService := newRideServiceWithActiveRule(rideRepo)

	allowed := []service.Actor{
		{ID: "rider-1", Role: domain.RoleRider},
		{ID: "driver-1", Role: domain.RoleDriver},
		{ID: "admin-1", Role: domain.RoleAdmin},
	}
	for _, actor := range allowed {
		if _, err := rideService.GetRide(context.Background(), "ride-1", actor); err != nil {
			t.Errorf("expected %s to see the ride, got %v", actor.ID, err)
		}
	}

	_, err := rideService.GetRide(context.Background(), "ride-1", service.Actor{ID: "rider-2", Role: domain.RoleRider})
	if err != service.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for a stranger, got %v", err)
	}
}

func TestListRides_ScopedByRole(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", Status: domain.RideStatusPending})
	rideRepo.AddRide(&domain.Ride{ID: "ride-2", RiderID: "rider-2", DriverID: "driver-1", Status: domain.RideStatusAccepted})
	rideService := newRideServiceWithActiveRule(rideRepo)
	ctx := context.Background()

	riderRides, err := rideService.ListRides(ctx, service.Actor{ID: "rider-1", Role: domain.RoleRider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(riderRides) != 1 || riderRides[0].ID != "ride-1" {
		t.Errorf("expected rider-1 to see only ride-1, got %d rides", len(riderRides))
	}

	driverRides, err := rideService.ListRides(ctx, service.Actor{ID: "driver-1", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(driverRides) != 1 || driverRides[0].ID != "ride-2" {
		t.Errorf("expected driver-1 to see only ride-2, got %d rides", len(driverRides))
	}

	adminRides, err := rideService.ListRides(ctx, service.Actor{ID: "admin-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adminRides) != 2 {
		t.Errorf("expected admin to see all rides, got %d", len(adminRides))
	}
}

func TestListPendingRides_FiltersClaimedRides(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", Status: domain.RideStatusPending})
	rideRepo.AddRide(&domain.Ride{ID: "ride-2", RiderID: "rider-2", DriverID: "driver-1", Status: domain.RideStatusAccepted})
	rideService := newRideServiceWithActiveRule(rideRepo)

	pending, err := rideService.ListPendingRides(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "ride-1" {
		t.Errorf("expected only the pending ride, got %d rides", len(pending))
	}
}

func TestMarkPaid_RequiresCompletedRide(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", Status: domain.RideStatusOngoing, DriverID: "driver-1"})
	rideService := newRideServiceWithActiveRule(rideRepo)

	_, err := rideService.MarkPaid(context.Background(), "ride-1", service.Actor{ID: "rider-1", Role: domain.RoleRider})
	if err != service.ErrRideNotCompleted {
		t.Errorf("expected ErrRideNotCompleted, got %v", err)
	}
}

func TestMarkPaid_RecordsPayment(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", DriverID: "driver-1", Status: domain.RideStatusCompleted})
	rideService := newRideServiceWithActiveRule(rideRepo)

	updated, err := rideService.MarkPaid(context.Background(), "ride-1", service.Actor{ID: "rider-1", Role: domain.RoleRider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected PAID payment status, got %s", updated.PaymentStatus)
	}
}

func TestMarkPaid_RejectsOtherUsers(t *testing.T) {
	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", DriverID: "driver-1", Status: domain.RideStatusCompleted})
	rideService := newRideServiceWithActiveRule(rideRepo)

	_, err := rideService.MarkPaid(context.Background(), "ride-1", service.Actor{ID: "driver-1", Role: domain.RoleDriver})
	if err != service.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
