package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// IsValid reports whether s is one of the defined ride statuses.
func (s RideStatus) IsValid() bool {
	switch s {
	case RideStatusPending, RideStatusAccepted, RideStatusOngoing,
		RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of a ride.
// It is an axis independent of the ride status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// GeoPoint is a coordinate pair with a human-readable address.
type GeoPoint struct {
	Lat     float64
	Lng     float64
	Address string
}

// Ride represents one rider-to-destination trip record.
type Ride struct {
	ID            string
	RiderID       string
	DriverID      string // empty until a driver claims the ride
	Pickup        GeoPoint
	Dropoff       GeoPoint
	DistanceKm    float64
	Fare          float64
	PromoCode     string // code applied to the fare, empty if none
	Status        RideStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   time.Time
	CancelReason  string
}
