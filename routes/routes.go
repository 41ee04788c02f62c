package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"turnero/handlers"
	"turnero/middleware"
)

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/bookings")
	{
		booking.POST("/availability", hb.CheckAvailabilityHandler)
		booking.GET("/quote", hb.QuotePriceHandler)
		booking.POST("", hb.RequestBookingHandler)
		booking.POST("/group", hb.RequestGroupBookingHandler)
		booking.DELETE("/:bookingID", hb.CancelBookingHandler)
	}
}

// RegisterWaitlistRoutes sets up the waitlist endpoints.
func RegisterWaitlistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	waitlist := r.Group("/api/waitlist")
	{
		waitlist.POST("", hb.JoinWaitlistHandler)
		waitlist.DELETE("/:entryID", hb.LeaveWaitlistHandler)
	}
}

// RegisterScheduleRoutes sets up provider schedule management endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	providers := r.Group("/api/providers")
	{
		providers.PUT("/:providerID/schedule", hb.SetScheduleHandler)
		providers.POST("/:providerID/schedule/validate", hb.ValidateScheduleChangeHandler)
		providers.GET("/:providerID/working-window", hb.WorkingWindowHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "turnero scheduling engine"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterWaitlistRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
}
