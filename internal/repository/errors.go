package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrPreconditionFailed is returned by conditional updates when the
	// stored row no longer matches the expected previous state.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. creating a promo code whose code already exists.
	ErrDuplicate = errors.New("entity already exists")
)
