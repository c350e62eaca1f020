package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/repository"
	"rideshare/internal/service"
)

// ErrorResponse represents an error response. Code is stable per error kind
// so front ends can branch on it.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	status, code := mapError(err)
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps service/repository errors to an HTTP status and a stable
// machine-readable code.
func mapError(err error) (int, string) {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidPromoCode),
		errors.Is(err, service.ErrInvalidFareRule):
		return http.StatusBadRequest, "INVALID_INPUT"

	// Pricing unavailable
	case errors.Is(err, service.ErrNoActiveFareRule),
		errors.Is(err, service.ErrMissingFareRule):
		return http.StatusConflict, "NO_ACTIVE_FARE_RULE"

	// Claim and transition conflicts
	case errors.Is(err, service.ErrRideAlreadyClaimed):
		return http.StatusConflict, "RIDE_ALREADY_CLAIMED"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, service.ErrRideConflict),
		errors.Is(err, repository.ErrPreconditionFailed):
		return http.StatusConflict, "PRECONDITION_FAILED"
	case errors.Is(err, service.ErrRideNotPending):
		return http.StatusConflict, "RIDE_NOT_PENDING"
	case errors.Is(err, service.ErrRideNotCompleted):
		return http.StatusConflict, "RIDE_NOT_COMPLETED"
	case errors.Is(err, service.ErrDriverAlreadyRegistered),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, "ALREADY_EXISTS"

	// Promo rule violations
	case errors.Is(err, service.ErrPromoInactive):
		return http.StatusUnprocessableEntity, "PROMO_INACTIVE"
	case errors.Is(err, service.ErrPromoExpired):
		return http.StatusUnprocessableEntity, "PROMO_EXPIRED"
	case errors.Is(err, service.ErrPromoExhausted):
		return http.StatusUnprocessableEntity, "PROMO_EXHAUSTED"
	case errors.Is(err, service.ErrPromoNotApplicable):
		return http.StatusUnprocessableEntity, "PROMO_NOT_APPLICABLE"
	case errors.Is(err, service.ErrPromoAlreadyApplied):
		return http.StatusConflict, "PROMO_ALREADY_APPLIED"

	// Role ineligible
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, "UNAUTHORIZED"

	// Default to internal server error
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
