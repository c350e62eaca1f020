package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rideshare/internal/handler"
	"rideshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler   *handler.RideHandler
	FareHandler   *handler.FareHandler
	PromoHandler  *handler.PromoHandler
	DriverHandler *handler.DriverHandler
	UserHandler   *handler.UserHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.ListRides)
			rides.GET("/pending", deps.RideHandler.ListPendingRides)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.GET("/:id/status", deps.RideHandler.GetRideStatus)
			rides.POST("/:id/claim", deps.RideHandler.ClaimRide)
			rides.POST("/:id/status", deps.RideHandler.TransitionRide)
			rides.POST("/:id/promo", deps.RideHandler.ApplyPromo)
			rides.POST("/:id/payment", deps.RideHandler.MarkPaid)
		}

		// Fare rule routes.
		fares := v1.Group("/fares")
		{
			fares.GET("/active", deps.FareHandler.GetActive)
			fares.GET("", deps.FareHandler.GetAll)
			fares.GET("/:id", deps.FareHandler.GetByID)
			fares.POST("", deps.FareHandler.Create)
			fares.PUT("/:id", deps.FareHandler.Update)
			fares.DELETE("/:id", deps.FareHandler.Delete)
			fares.POST("/:id/activate", deps.FareHandler.Activate)
			fares.POST("/calculate", deps.FareHandler.Calculate)
		}

		// Promo code routes.
		promos := v1.Group("/promocodes")
		{
			promos.POST("", deps.PromoHandler.Create)
			promos.GET("", deps.PromoHandler.GetAll)
			promos.GET("/:id", deps.PromoHandler.Get)
			promos.PUT("/:id", deps.PromoHandler.Update)
			promos.DELETE("/:id", deps.PromoHandler.Delete)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.PUT("/:id/verify", deps.DriverHandler.Verify)
		}
	}

	return router
}
