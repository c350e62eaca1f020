package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// PromoHandler handles HTTP requests for promo code administration.
type PromoHandler struct {
	promos *service.PromoService
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(promos *service.PromoService) *PromoHandler {
	return &PromoHandler{promos: promos}
}

// CreatePromoRequest is the HTTP request body for creating a promo code.
type CreatePromoRequest struct {
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	ExpirationDate string  `json:"expiration_date"`
	UsageLimit     int     `json:"usage_limit,omitempty"`
	UserUsageLimit int     `json:"user_usage_limit,omitempty"`
	MinRideAmount  float64 `json:"min_ride_amount,omitempty"`
}

// UpdatePromoRequest is the HTTP request body for updating a promo code.
type UpdatePromoRequest struct {
	DiscountValue  *float64 `json:"discount_value,omitempty"`
	ExpirationDate *string  `json:"expiration_date,omitempty"`
	UsageLimit     *int     `json:"usage_limit,omitempty"`
	UserUsageLimit *int     `json:"user_usage_limit,omitempty"`
	MinRideAmount  *float64 `json:"min_ride_amount,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// PromoResponse is the HTTP response shape for a promo code.
type PromoResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	ExpirationDate string  `json:"expiration_date"`
	UsageLimit     int     `json:"usage_limit"`
	UserUsageLimit int     `json:"user_usage_limit"`
	MinRideAmount  float64 `json:"min_ride_amount"`
	IsActive       bool    `json:"is_active"`
}

func toPromoResponse(promo *domain.PromoCode) PromoResponse {
	return PromoResponse{
		ID:             promo.ID,
		Code:           promo.Code,
		DiscountType:   string(promo.DiscountType),
		DiscountValue:  promo.DiscountValue,
		ExpirationDate: promo.ExpirationDate.Format(time.RFC3339),
		UsageLimit:     promo.UsageLimit,
		UserUsageLimit: promo.UserUsageLimit,
		MinRideAmount:  promo.MinRideAmount,
		IsActive:       promo.IsActive,
	}
}

// Create handles POST /v1/promocodes
func (h *PromoHandler) Create(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	expiration, err := time.Parse(time.RFC3339, req.ExpirationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expiration date"})
		return
	}

	promo, err := h.promos.CreatePromoCode(c.Request.Context(), service.CreatePromoCodeRequest{
		Code:           req.Code,
		DiscountType:   domain.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		ExpirationDate: expiration,
		UsageLimit:     req.UsageLimit,
		UserUsageLimit: req.UserUsageLimit,
		MinRideAmount:  req.MinRideAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPromoResponse(promo))
}

// GetAll handles GET /v1/promocodes
func (h *PromoHandler) GetAll(c *gin.Context) {
	promos, err := h.promos.GetAllPromoCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PromoResponse, 0, len(promos))
	for _, promo := range promos {
		response = append(response, toPromoResponse(promo))
	}
	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/promocodes/:id
func (h *PromoHandler) Get(c *gin.Context) {
	promo, err := h.promos.GetPromoCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPromoResponse(promo))
}

// Update handles PUT /v1/promocodes/:id
func (h *PromoHandler) Update(c *gin.Context) {
	var req UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	update := service.UpdatePromoCodeRequest{
		DiscountValue:  req.DiscountValue,
		UsageLimit:     req.UsageLimit,
		UserUsageLimit: req.UserUsageLimit,
		MinRideAmount:  req.MinRideAmount,
		IsActive:       req.IsActive,
	}
	if req.ExpirationDate != nil {
		expiration, err := time.Parse(time.RFC3339, *req.ExpirationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expiration date"})
			return
		}
		update.ExpirationDate = &expiration
	}

	promo, err := h.promos.UpdatePromoCode(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPromoResponse(promo))
}

// Delete handles DELETE /v1/promocodes/:id
func (h *PromoHandler) Delete(c *gin.Context) {
	if err := h.promos.DeletePromoCode(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "promo code removed"})
}
