package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-ticket-booking/internal/cache"
	"github.com/iliyamo/movie-ticket-booking/internal/checkout"
	"github.com/iliyamo/movie-ticket-booking/internal/client"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	queue_publisher "github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	// MySQL stores the order history.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables seat caching and rate
	// limiting but the service stays fully functional.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; seat cache and rate limiting disabled")
	}

	// Remote collaborators: showtime/seat queries and payments.
	reservations := client.NewReservationClient(cfg.ReservationAPIURL, 0)
	payments := client.NewPaymentClient(cfg.PaymentAPIURL, 0)

	seatCache := cache.NewReservedSeatCache(rdb, reservations, cfg.SeatCacheTTL)
	submitter := checkout.NewSubmitter(payments)
	orders := repository.NewOrderRepo(db)

	booking := handler.NewBookingHandler(
		reservations,
		seatCache,
		submitter,
		orders,
		seatCache,
		cfg.UnitPriceCents,
		queue_publisher.PublishTicketPurchased,
	)

	// Consume purchase events in the background for the audit log.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, booking)
	router.RegisterBooking(e, booking, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
