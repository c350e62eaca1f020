package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// FareHandler handles HTTP requests for fare rules.
type FareHandler struct {
	fareRules *service.FareRuleService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(fareRules *service.FareRuleService) *FareHandler {
	return &FareHandler{fareRules: fareRules}
}

// CreateFareRuleRequest is the HTTP request body for creating a fare rule.
type CreateFareRuleRequest struct {
	BaseFare        float64 `json:"base_fare"`
	MinFareDistance float64 `json:"min_fare_distance"`
	MinFareAmount   float64 `json:"min_fare_amount"`
	PerKmRate       float64 `json:"per_km_rate"`
	IsActive        bool    `json:"is_active"`
}

// UpdateFareRuleRequest is the HTTP request body for updating a fare rule.
type UpdateFareRuleRequest struct {
	BaseFare        *float64 `json:"base_fare,omitempty"`
	MinFareDistance *float64 `json:"min_fare_distance,omitempty"`
	MinFareAmount   *float64 `json:"min_fare_amount,omitempty"`
	PerKmRate       *float64 `json:"per_km_rate,omitempty"`
}

// CalculateFareRequest is the HTTP request body for a fare quote.
type CalculateFareRequest struct {
	DistanceKm float64 `json:"distance_km"`
}

// FareRuleResponse is the HTTP response shape for a fare rule.
type FareRuleResponse struct {
	ID              string  `json:"id"`
	BaseFare        float64 `json:"base_fare"`
	MinFareDistance float64 `json:"min_fare_distance"`
	MinFareAmount   float64 `json:"min_fare_amount"`
	PerKmRate       float64 `json:"per_km_rate"`
	IsActive        bool    `json:"is_active"`
}

func toFareRuleResponse(rule *domain.FareRule) FareRuleResponse {
	return FareRuleResponse{
		ID:              rule.ID,
		BaseFare:        rule.BaseFare,
		MinFareDistance: rule.MinFareDistance,
		MinFareAmount:   rule.MinFareAmount,
		PerKmRate:       rule.PerKmRate,
		IsActive:        rule.IsActive,
	}
}

// GetActive handles GET /v1/fares/active
func (h *FareHandler) GetActive(c *gin.Context) {
	rule, err := h.fareRules.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toFareRuleResponse(rule))
}

// GetAll handles GET /v1/fares
func (h *FareHandler) GetAll(c *gin.Context) {
	rules, err := h.fareRules.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FareRuleResponse, 0, len(rules))
	for _, rule := range rules {
		response = append(response, toFareRuleResponse(rule))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetByID handles GET /v1/fares/:id
func (h *FareHandler) GetByID(c *gin.Context) {
	rule, err := h.fareRules.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toFareRuleResponse(rule))
}

// Create handles POST /v1/fares
func (h *FareHandler) Create(c *gin.Context) {
	var req CreateFareRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule, err := h.fareRules.Create(c.Request.Context(), service.CreateFareRuleRequest{
		BaseFare:        req.BaseFare,
		MinFareDistance: req.MinFareDistance,
		MinFareAmount:   req.MinFareAmount,
		PerKmRate:       req.PerKmRate,
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toFareRuleResponse(rule))
}

// Update handles PUT /v1/fares/:id
func (h *FareHandler) Update(c *gin.Context) {
	var req UpdateFareRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule, err := h.fareRules.Update(c.Request.Context(), c.Param("id"), service.UpdateFareRuleRequest{
		BaseFare:        req.BaseFare,
		MinFareDistance: req.MinFareDistance,
		MinFareAmount:   req.MinFareAmount,
		PerKmRate:       req.PerKmRate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toFareRuleResponse(rule))
}

// Activate handles POST /v1/fares/:id/activate
func (h *FareHandler) Activate(c *gin.Context) {
	rule, err := h.fareRules.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toFareRuleResponse(rule))
}

// Delete handles DELETE /v1/fares/:id
func (h *FareHandler) Delete(c *gin.Context) {
	if err := h.fareRules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"deleted": true})
}

// Calculate handles POST /v1/fares/calculate
func (h *FareHandler) Calculate(c *gin.Context) {
	var req CalculateFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	fare, err := h.fareRules.Quote(c.Request.Context(), req.DistanceKm)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"fare": fare})
}
