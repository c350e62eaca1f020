package domain

import "time"

// Driver represents a driver profile backed by a user account.
// The ride lifecycle treats a driver purely as an opaque claimant identity;
// verification gating happens before any lifecycle call.
type Driver struct {
	ID                        string
	UserID                    string
	LicenseNumber             string
	VehicleModel              string
	VehicleColor              string
	VehicleRegistrationNumber string
	IsVerified                bool
	CreatedAt                 time.Time
}
