package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"expertcall/handlers"
	"expertcall/middleware"
)

// RegisterBookingRoutes registers the booking session and payment endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	sessions := api.Group("/sessions")
	sessions.Use(middleware.RequireUserID())
	{
		sessions.POST("", hb.Booking.StartSession)
		sessions.GET("/:sessionID/slots", hb.Booking.Slots)
		sessions.POST("/:sessionID/quote", hb.Booking.Quote)
		sessions.POST("/:sessionID/reserve", hb.Booking.Reserve)
		sessions.DELETE("/:sessionID", hb.Booking.CancelSession)
	}

	bookings := api.Group("/bookings")
	bookings.Use(middleware.RequireUserID())
	{
		bookings.POST("/:bookingID/confirm-payment", hb.Booking.ConfirmPayment)
	}
}

// RegisterProviderRoutes registers provider profile management.
func RegisterProviderRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	providers := api.Group("/providers")
	{
		providers.GET("/:providerID", hb.Provider.GetProfile)
		providers.PUT("/:providerID", hb.Provider.UpsertProfile)
		providers.POST("/:providerID/devices", hb.Provider.RegisterDevice)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, metricsPath string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.UserIDHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)
	if metricsPath != "" {
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api/v1")
	RegisterBookingRoutes(api, hb)
	RegisterProviderRoutes(api, hb)
}
