package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidDistance is returned when the ride distance is not positive.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidPickupLocation is returned when pickup coordinates or address are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates or address are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrNoActiveFareRule is returned when no fare rule is currently active.
	// Distinct from not-found so callers can tell "pricing unavailable" from
	// "rule id does not exist".
	ErrNoActiveFareRule = errors.New("no active fare rule")

	// ErrMissingFareRule is returned when a fare computation is attempted
	// without a rule.
	ErrMissingFareRule = errors.New("fare rule is required")

	// ErrRideAlreadyClaimed is returned when a claim races with another
	// driver's claim and loses, or the ride already has a driver.
	ErrRideAlreadyClaimed = errors.New("ride already claimed")

	// ErrInvalidTransition is returned when the requested status change is
	// not legal from the ride's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized is returned when the caller's role is not eligible for
	// the requested operation. Authentication itself happens upstream.
	ErrUnauthorized = errors.New("caller not authorized for this operation")

	// ErrRideConflict is returned when a conditional ride update loses to a
	// concurrent writer.
	ErrRideConflict = errors.New("ride was modified concurrently")

	// ErrPromoInactive is returned when the promo code has been disabled.
	ErrPromoInactive = errors.New("promo code is not active")

	// ErrPromoExpired is returned when the promo code has expired.
	ErrPromoExpired = errors.New("promo code has expired")

	// ErrPromoExhausted is returned when a usage limit has been reached.
	ErrPromoExhausted = errors.New("promo code usage limit reached")

	// ErrPromoNotApplicable is returned when the fare is below the promo's
	// minimum ride amount.
	ErrPromoNotApplicable = errors.New("fare below promo minimum ride amount")

	// ErrPromoAlreadyApplied is returned when a ride already carries a promo.
	ErrPromoAlreadyApplied = errors.New("promo already applied to this ride")

	// ErrRideNotPending is returned when a promo is applied after the ride
	// left the pending state.
	ErrRideNotPending = errors.New("ride is no longer pending")

	// ErrRideNotCompleted is returned when payment is recorded for a ride
	// that has not completed.
	ErrRideNotCompleted = errors.New("ride is not completed")

	// ErrInvalidPromoCode is returned when the promo code string is empty or
	// the discount definition is malformed.
	ErrInvalidPromoCode = errors.New("invalid promo code")

	// ErrInvalidFareRule is returned when a fare rule carries non-positive
	// pricing fields.
	ErrInvalidFareRule = errors.New("invalid fare rule")

	// ErrDriverAlreadyRegistered is returned when the user already has a
	// driver profile.
	ErrDriverAlreadyRegistered = errors.New("driver already registered")
)
