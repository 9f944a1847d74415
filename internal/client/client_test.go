package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/checkout"
)

func TestFetchShowtimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies/m1/showtimes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"showtimes":[
			{"id":"st1","time":"1:00 PM","createdAt":"2026-08-01T10:00:00Z","updatedAt":"2026-08-01T10:00:00Z"},
			{"id":"st2","time":"10:30 AM","createdAt":"2026-08-01T10:00:00Z","updatedAt":"2026-08-01T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewReservationClient(srv.URL, time.Second)
	showtimes, err := c.FetchShowtimes(context.Background(), "m1")

	require.NoError(t, err)
	require.Len(t, showtimes, 2)
	assert.Equal(t, "st1", showtimes[0].ID)
	assert.Equal(t, "1:00 PM", showtimes[0].Time)
}

func TestFetchReservedSeatsSkipsUnknownLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservations/showtimes/st1/seats", r.URL.Path)
		_, _ = w.Write([]byte(`["A1","B5","Z9",""]`))
	}))
	defer srv.Close()

	c := NewReservationClient(srv.URL, time.Second)
	seats, err := c.FetchReservedSeats(context.Background(), "st1")

	require.NoError(t, err)
	assert.Equal(t, []booking.SeatID{{Row: 'A', Number: 1}, {Row: 'B', Number: 5}}, seats)
}

func TestFetchReservedSeatsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewReservationClient(srv.URL, time.Second)
	_, err := c.FetchReservedSeats(context.Background(), "st1")

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode())
}

func TestSubmitPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/create-payment-intent", r.URL.Path)
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactionID":"txn-42","type":"visa","date":"2026-08-30T20:15:00Z"}`))
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL, time.Second)
	receipt, err := c.SubmitPayment(context.Background(), checkout.PaymentRequest{
		Type:           "visa",
		TotalCents:     4500,
		Date:           "2026-08-30T20:14:58Z",
		ShowtimeID:     "st1",
		Seats:          []string{"A1", "A2", "B3"},
		IdempotencyKey: "idem-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "txn-42", receipt.TransactionID)
	assert.Equal(t, "visa", receipt.PaymentType)
	assert.Equal(t, 2026, receipt.Timestamp.Year())
}

func TestSubmitPaymentUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL, time.Second)
	_, err := c.SubmitPayment(context.Background(), checkout.PaymentRequest{ShowtimeID: "st1"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode())
}
