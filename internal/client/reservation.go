// Package client implements the HTTP clients for the two remote
// collaborators of the booking core: the showtime/seat query service
// and the payment submission service.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// StatusError is returned when the remote service answers with a
// non-2xx status.  It keeps the code so callers can map the failure
// to a coarse category.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote service returned status %d", e.Status)
	}
	return fmt.Sprintf("remote service returned status %d: %s", e.Status, e.Body)
}

// StatusCode reports the HTTP status, satisfying the checkout
// package's StatusCoder.
func (e *StatusError) StatusCode() int { return e.Status }

// ReservationClient queries the remote reservation service for movie
// showtimes and per-showtime seat occupancy.
type ReservationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewReservationClient builds a client for the reservation service at
// baseURL.  A zero timeout defaults to ten seconds.
func NewReservationClient(baseURL string, timeout time.Duration) *ReservationClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ReservationClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchShowtimes loads the showtimes scheduled for a movie.  The raw
// order is whatever the service returns; callers sort via the catalog
// package.
func (c *ReservationClient) FetchShowtimes(ctx context.Context, movieID string) ([]model.Showtime, error) {
	var payload struct {
		Showtimes []model.Showtime `json:"showtimes"`
	}
	path := fmt.Sprintf("/movies/%s/showtimes", url.PathEscape(movieID))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch showtimes for movie %s: %w", movieID, err)
	}
	return payload.Showtimes, nil
}

// FetchReservedSeats loads the seat labels already reserved for a
// showtime and parses them into seat identifiers.  Labels outside the
// configured grid are skipped: they cannot collide with anything the
// user can select.
func (c *ReservationClient) FetchReservedSeats(ctx context.Context, showtimeID string) ([]booking.SeatID, error) {
	var labels []string
	path := fmt.Sprintf("/reservations/showtimes/%s/seats", url.PathEscape(showtimeID))
	if err := c.getJSON(ctx, path, &labels); err != nil {
		return nil, fmt.Errorf("fetch reserved seats for showtime %s: %w", showtimeID, err)
	}
	seats := make([]booking.SeatID, 0, len(labels))
	for _, label := range labels {
		s, err := booking.ParseSeatID(label)
		if err != nil {
			continue
		}
		seats = append(seats, s)
	}
	return seats, nil
}

// getJSON performs a GET against the service and decodes the JSON
// response into out.  Non-2xx statuses become StatusError.
func (c *ReservationClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &StatusError{Status: res.StatusCode, Body: string(snippet)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
