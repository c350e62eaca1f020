package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
	lifecycle   *service.RideLifecycle
	promos      *service.PromoService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, lifecycle *service.RideLifecycle, promos *service.PromoService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		lifecycle:   lifecycle,
		promos:      promos,
	}
}

// PointRequest is a pickup/dropoff point in request bodies.
type PointRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	RiderID    string       `json:"rider_id"`
	Pickup     PointRequest `json:"pickup"`
	Dropoff    PointRequest `json:"dropoff"`
	DistanceKm float64      `json:"distance_km"`
}

// ClaimRideRequest is the HTTP request body for claiming a ride.
type ClaimRideRequest struct {
	DriverID string `json:"driver_id"`
}

// TransitionRideRequest is the HTTP request body for a status transition.
type TransitionRideRequest struct {
	CallerID     string `json:"caller_id"`
	CallerRole   string `json:"caller_role"`
	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

// ApplyPromoRequest is the HTTP request body for applying a promo code.
type ApplyPromoRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

// MarkPaidRequest is the HTTP request body for recording payment.
type MarkPaidRequest struct {
	CallerID   string `json:"caller_id"`
	CallerRole string `json:"caller_role"`
}

// RideResponse is the HTTP response shape for a ride.
type RideResponse struct {
	ID            string       `json:"id"`
	RiderID       string       `json:"rider_id"`
	DriverID      string       `json:"driver_id,omitempty"`
	Pickup        PointRequest `json:"pickup"`
	Dropoff       PointRequest `json:"dropoff"`
	DistanceKm    float64      `json:"distance_km"`
	Fare          float64      `json:"fare"`
	PromoCode     string       `json:"promo_code,omitempty"`
	Status        string       `json:"status"`
	PaymentStatus string       `json:"payment_status"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
	CancelledAt   string       `json:"cancelled_at,omitempty"`
	CancelReason  string       `json:"cancel_reason,omitempty"`
}

func toRideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:            ride.ID,
		RiderID:       ride.RiderID,
		DriverID:      ride.DriverID,
		Pickup:        PointRequest{Lat: ride.Pickup.Lat, Lng: ride.Pickup.Lng, Address: ride.Pickup.Address},
		Dropoff:       PointRequest{Lat: ride.Dropoff.Lat, Lng: ride.Dropoff.Lng, Address: ride.Dropoff.Address},
		DistanceKm:    ride.DistanceKm,
		Fare:          ride.Fare,
		PromoCode:     ride.PromoCode,
		Status:        string(ride.Status),
		PaymentStatus: string(ride.PaymentStatus),
		CreatedAt:     ride.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     ride.UpdatedAt.Format(time.RFC3339),
	}
	if !ride.CancelledAt.IsZero() {
		resp.CancelledAt = ride.CancelledAt.Format(time.RFC3339)
		resp.CancelReason = ride.CancelReason
	}
	return resp
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RiderID:    req.RiderID,
		Pickup:     domain.GeoPoint{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng, Address: req.Pickup.Address},
		Dropoff:    domain.GeoPoint{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng, Address: req.Dropoff.Address},
		DistanceKm: req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"), actorFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ListRides handles GET /v1/rides
func (h *RideHandler) ListRides(c *gin.Context) {
	rides, err := h.rideService.ListRides(c.Request.Context(), actorFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, toRideResponse(ride))
	}
	respondJSON(c, http.StatusOK, response)
}

// ListPendingRides handles GET /v1/rides/pending
func (h *RideHandler) ListPendingRides(c *gin.Context) {
	rides, err := h.rideService.ListPendingRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, toRideResponse(ride))
	}
	respondJSON(c, http.StatusOK, response)
}

// RideStatusResponse is the HTTP response shape for status polling.
type RideStatusResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	DriverID      string  `json:"driver_id,omitempty"`
	Fare          float64 `json:"fare"`
	PaymentStatus string  `json:"payment_status"`
}

// GetRideStatus handles GET /v1/rides/:id/status
func (h *RideHandler) GetRideStatus(c *gin.Context) {
	view, err := h.rideService.GetRideStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, RideStatusResponse{
		ID:            view.ID,
		Status:        string(view.Status),
		DriverID:      view.DriverID,
		Fare:          view.Fare,
		PaymentStatus: string(view.PaymentStatus),
	})
}

// ClaimRide handles POST /v1/rides/:id/claim
func (h *RideHandler) ClaimRide(c *gin.Context) {
	var req ClaimRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.Claim(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// TransitionRide handles POST /v1/rides/:id/status
func (h *RideHandler) TransitionRide(c *gin.Context) {
	var req TransitionRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.Transition(c.Request.Context(), service.TransitionRequest{
		RideID:       c.Param("id"),
		Actor:        service.Actor{ID: req.CallerID, Role: domain.Role(req.CallerRole)},
		Target:       domain.RideStatus(req.Status),
		CancelReason: req.CancelReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ApplyPromo handles POST /v1/rides/:id/promo
func (h *RideHandler) ApplyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.promos.ApplyToRide(c.Request.Context(), c.Param("id"), req.Code, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// MarkPaid handles POST /v1/rides/:id/payment
func (h *RideHandler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.MarkPaid(c.Request.Context(), c.Param("id"), service.Actor{
		ID:   req.CallerID,
		Role: domain.Role(req.CallerRole),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// actorFromQuery reads the pre-authenticated caller identity from query
// parameters. Authentication itself happens upstream of this service.
func actorFromQuery(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.Query("caller_id"),
		Role: domain.Role(c.Query("caller_role")),
	}
}
