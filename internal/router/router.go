package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"    // handlers implementing the booking flow
	"github.com/iliyamo/movie-ticket-booking/internal/middleware" // JWT and rate-limit middleware
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance: the health check plus the public
// browse endpoints (showtimes and seat maps), which guests may view
// before signing in.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
	// Showtimes of a movie, sorted by time of day.
	e.GET("/v1/movies/:id/showtimes", b.GetShowtimes)
	// Full seat grid with per-seat availability for a showtime.
	e.GET("/v1/showtimes/:id/seats", b.GetSeatMap)
}

// RegisterBooking registers the authenticated booking endpoints.
// Checkout and order history require a valid access token issued by
// the auth service; checkout is additionally rate limited since it
// reaches the payment processor.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Checkout is capped at 10 attempts per minute per client.
	auth.POST("/checkout", b.Checkout, middleware.RateLimit(rdb, 10, time.Minute))
	auth.GET("/orders", b.ListOrders)
	auth.GET("/orders/:id", b.GetOrder)
}
