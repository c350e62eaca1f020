package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	UserID                    string `json:"user_id"`
	LicenseNumber             string `json:"license_number"`
	VehicleModel              string `json:"vehicle_model"`
	VehicleColor              string `json:"vehicle_color"`
	VehicleRegistrationNumber string `json:"vehicle_registration_number"`
}

// VerifyDriverRequest is the HTTP request body for verification approval.
type VerifyDriverRequest struct {
	IsVerified bool `json:"is_verified"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID                        string `json:"id"`
	UserID                    string `json:"user_id"`
	LicenseNumber             string `json:"license_number"`
	VehicleModel              string `json:"vehicle_model"`
	VehicleColor              string `json:"vehicle_color"`
	VehicleRegistrationNumber string `json:"vehicle_registration_number"`
	IsVerified                bool   `json:"is_verified"`
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:                        driver.ID,
		UserID:                    driver.UserID,
		LicenseNumber:             driver.LicenseNumber,
		VehicleModel:              driver.VehicleModel,
		VehicleColor:              driver.VehicleColor,
		VehicleRegistrationNumber: driver.VehicleRegistrationNumber,
		IsVerified:                driver.IsVerified,
	}
}

// Register handles POST /v1/drivers
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.UserID == "" || req.LicenseNumber == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id and license_number are required"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		UserID:                    req.UserID,
		LicenseNumber:             req.LicenseNumber,
		VehicleModel:              req.VehicleModel,
		VehicleColor:              req.VehicleColor,
		VehicleRegistrationNumber: req.VehicleRegistrationNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverService.GetAllDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		response = append(response, toDriverResponse(driver))
	}
	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/drivers/:id
func (h *DriverHandler) Get(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Verify handles PUT /v1/drivers/:id/verify
func (h *DriverHandler) Verify(c *gin.Context) {
	var req VerifyDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Verify(c.Request.Context(), c.Param("id"), req.IsVerified)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}
