package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/checkout"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ShowtimeSource lists the showtimes scheduled for a movie.  The
// reservation HTTP client implements it.
type ShowtimeSource interface {
	FetchShowtimes(ctx context.Context, movieID string) ([]model.Showtime, error)
}

// OrderStore persists and reads back completed purchases.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetByIDForUser(ctx context.Context, id uint64, userID string) (*model.Order, error)
}

// SeatCacheInvalidator drops cached occupancy after a purchase so the
// newly reserved seats appear on the next seat-map read.
type SeatCacheInvalidator interface {
	Invalidate(ctx context.Context, showtimeID string)
}

// BookingHandler serves the booking flow: showtime listing, the seat
// map, checkout and order history.  Each checkout request runs its
// own booking.Flow; no selection state is shared between requests.
type BookingHandler struct {
	Showtimes      ShowtimeSource
	Seats          booking.SeatQuerier    // reserved-seat source, usually the Redis-backed cache
	Submitter      *checkout.Submitter
	Orders         OrderStore
	Invalidator    SeatCacheInvalidator // may be nil when Redis is absent
	UnitPriceCents uint32
	// Publish sends the purchase event to the broker.  Wired to the
	// queue publisher in production; overridable in tests.
	Publish func(ctx context.Context, ev queue.TicketPurchasedEvent) error
}

// NewBookingHandler constructs a BookingHandler.  Showtimes, Seats,
// Submitter and Orders must be non-nil.
func NewBookingHandler(showtimes ShowtimeSource, seats booking.SeatQuerier, submitter *checkout.Submitter, orders OrderStore, invalidator SeatCacheInvalidator, unitPriceCents uint32, publish func(ctx context.Context, ev queue.TicketPurchasedEvent) error) *BookingHandler {
	if showtimes == nil || seats == nil || submitter == nil || orders == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Showtimes:      showtimes,
		Seats:          seats,
		Submitter:      submitter,
		Orders:         orders,
		Invalidator:    invalidator,
		UnitPriceCents: unitPriceCents,
		Publish:        publish,
	}
}

// GetShowtimes handles GET /v1/movies/:id/showtimes.  Showtimes are
// returned ordered by time of day ascending.  A malformed display
// time is an upstream contract violation and surfaces as 502 rather
// than being silently skipped.
func (h *BookingHandler) GetShowtimes(c echo.Context) error {
	movieID := c.Param("id")
	if movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	raw, err := h.Showtimes.FetchShowtimes(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load showtimes"})
	}
	sorted, err := catalog.Sort(raw)
	if err != nil {
		var malformed *catalog.MalformedTimeError
		if errors.As(err, &malformed) {
			log.Printf("handler: catalog returned malformed showtime for movie %s: %v", movieID, err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "malformed showtime data"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sort showtimes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": sorted})
}

// seatView is one seat in the seat-map response.
type seatView struct {
	Seat   string             `json:"seat"`
	Row    string             `json:"row"`
	Number uint32             `json:"number"`
	Status booking.SeatStatus `json:"status"`
}

// GetSeatMap handles GET /v1/showtimes/:id/seats.  It renders the
// full grid with per-seat status.  When the occupancy fetch fails the
// map degrades to all seats available; the reservation service stays
// authoritative at submission time.
func (h *BookingHandler) GetSeatMap(c echo.Context) error {
	showtimeID := c.Param("id")
	if showtimeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	flow := booking.NewFlow(h.Seats, h.UnitPriceCents)
	flow.ChangeShowtime(ctx, model.Showtime{ID: showtimeID})

	seats := make([]seatView, 0, len(booking.SeatRows)*booking.SeatsPerRow)
	for _, s := range booking.AllSeats() {
		seats = append(seats, seatView{
			Seat:   s.Label(),
			Row:    string(s.Row),
			Number: s.Number,
			Status: flow.Status(s),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id":      showtimeID,
		"unit_price_cents": h.UnitPriceCents,
		"seats":            seats,
	})
}

// checkoutRequest is the body of POST /v1/checkout.
type checkoutRequest struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	Showtime   struct {
		ID   string `json:"id"`
		Time string `json:"time"`
	} `json:"showtime"`
	Seats []string `json:"seats"`
	Card  struct {
		Number string `json:"number"`
		Expiry string `json:"expiry"`
		CVV    string `json:"cvv"`
		Name   string `json:"name"`
	} `json:"card"`
}

// Checkout handles POST /v1/checkout.  It replays the client's seat
// selection against fresh occupancy, freezes it into a session and
// submits the payment.  Failure modes:
//   - 400 for malformed bodies, unknown seat labels, empty selection
//     or invalid payment fields (field-keyed)
//   - 409 when any requested seat is already reserved
//   - 401/502/504 for categorized submission failures; the client may
//     retry the same request, carrying an Idempotency-Key header that
//     is forwarded to the payment processor unchanged
func (h *BookingHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body checkoutRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Showtime.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime is required"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	seats := make([]booking.SeatID, 0, len(body.Seats))
	for _, label := range body.Seats {
		s, err := booking.ParseSeatID(label)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat label", "seat": label})
		}
		seats = append(seats, s)
	}

	ctx := c.Request().Context()
	flow := booking.NewFlow(h.Seats, h.UnitPriceCents)
	flow.SetMovie(body.MovieID, body.MovieTitle)
	flow.ChangeShowtime(ctx, model.Showtime{ID: body.Showtime.ID, Time: body.Showtime.Time})

	unavailable := make([]string, 0)
	for _, s := range seats {
		if !flow.Toggle(s) {
			unavailable = append(unavailable, s.Label())
		}
	}
	if len(unavailable) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "some seats are unavailable",
			"unavailable": unavailable,
		})
	}

	session, err := flow.Confirm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	// a client retrying a timed-out checkout sends the same key, so
	// the processor can collapse the retry into the original charge
	session.AdoptIdempotencyKey(c.Request().Header.Get("Idempotency-Key"))

	receipt, err := h.Submitter.Submit(ctx, flow, session, checkout.CardDetails{
		Number: body.Card.Number,
		Expiry: body.Card.Expiry,
		CVV:    body.Card.CVV,
		Name:   body.Card.Name,
	})
	if err != nil {
		var fieldErrs checkout.FieldErrors
		if errors.As(err, &fieldErrs) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "invalid payment details",
				"fields": fieldErrs,
			})
		}
		var subErr *checkout.SubmissionError
		if errors.As(err, &subErr) {
			switch subErr.Category {
			case checkout.CategoryUnauthorized:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "payment unauthorized"})
			case checkout.CategoryServer:
				return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment service error"})
			default:
				return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "payment service unreachable"})
			}
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	order := &model.Order{
		UserID:        userID,
		MovieID:       session.MovieID,
		MovieTitle:    session.MovieTitle,
		ShowtimeID:    session.Showtime.ID,
		ShowtimeLabel: session.Showtime.Time,
		Seats:         session.SeatLabels(),
		TotalCents:    session.TotalCents(),
		TransactionID: receipt.TransactionID,
		PaymentType:   receipt.PaymentType,
		PurchasedAt:   receipt.Timestamp,
	}
	if err := h.Orders.Create(ctx, order); err != nil {
		// the payment already went through; losing the history row is
		// recoverable from the receipt, failing the request is not
		log.Printf("handler: persist order for txn %s failed: %v", receipt.TransactionID, err)
	}
	if h.Invalidator != nil {
		h.Invalidator.Invalidate(ctx, session.Showtime.ID)
	}
	if h.Publish != nil {
		ev := queue.TicketPurchasedEvent{
			OrderID:       order.ID,
			UserID:        userID,
			MovieID:       order.MovieID,
			MovieTitle:    order.MovieTitle,
			ShowtimeID:    order.ShowtimeID,
			ShowtimeLabel: order.ShowtimeLabel,
			Seats:         order.Seats,
			TotalCents:    order.TotalCents,
			TransactionID: order.TransactionID,
			PaymentType:   order.PaymentType,
			PurchasedAt:   receipt.Timestamp.UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Publish(context.WithoutCancel(ctx), ev) }()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"transaction_id": receipt.TransactionID,
		"payment_type":   receipt.PaymentType,
		"timestamp":      receipt.Timestamp.UTC().Format(time.RFC3339),
		"order_id":       order.ID,
		"seats":          order.Seats,
		"total_cents":    order.TotalCents,
		"total":          booking.FormatCents(order.TotalCents),
	})
}

// ListOrders handles GET /v1/orders.  It returns the caller's order
// history, most recent first; an empty history is an empty array.
func (h *BookingHandler) ListOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// GetOrder handles GET /v1/orders/:id.  Ownership is enforced in the
// repository, so a foreign order reads as not found.
func (h *BookingHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Orders.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": order})
}

// getUserID extracts the authenticated user's identifier injected by
// the JWT middleware.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("no user in context")
}
