package routes

import (
	"net/http"
	"time"

	"meetio/config"
	"meetio/handlers"
	"meetio/middleware"
	"meetio/services/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Experts  *handlers.ExpertHandler
	Bookings *handlers.BookingHandler
	Realtime *handlers.RealtimeHandler
	Users    user.Service
}

// RegisterAuthRoutes registers the identity endpoints.
func RegisterAuthRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", h.Auth.Signup)
		api.POST("/login", h.Auth.Login)
	}
}

// RegisterExpertRoutes registers the read-only catalog endpoints.
func RegisterExpertRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/experts")
	{
		api.GET("", h.Experts.GetExperts)
		api.GET("/categories", h.Experts.GetCategories)
		api.GET("/:id", h.Experts.GetExpertByID)
	}
}

// RegisterBookingRoutes registers the reservation endpoints. Creating and
// transitioning bookings requires authentication; the lookup by email allows
// anonymous access but restricts authenticated callers to their own email.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/bookings")
	{
		api.GET("", middleware.JWTAuthMiddleware(h.Users, true), h.Bookings.GetBookingsByEmail)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(h.Users, false))
		protected.POST("", h.Bookings.CreateBooking)
		protected.PATCH("/:id/status", h.Bookings.UpdateBookingStatus)
	}
}

// RegisterRealtimeRoute registers the WebSocket channel for slot events.
func RegisterRealtimeRoute(r *gin.Engine, h *Handlers) {
	r.GET("/ws", h.Realtime.Serve)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, h)
	RegisterExpertRoutes(r, h)
	RegisterBookingRoutes(r, h)
	RegisterRealtimeRoute(r, h)
	RegisterHealthRoute(r)
}
