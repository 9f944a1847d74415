package booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Session is the frozen, submission-ready snapshot of one confirmed
// selection: movie, showtime, seats and price.  It is created by
// Flow.Confirm, is immutable thereafter and is consumed exactly once
// by checkout submission.  Later changes to the live selection do not
// affect a session that has already been created.
//
// Every session carries a freshly minted idempotency key.  The
// submission service can use it to detect a retried submit after an
// ambiguous failure (a timeout that the server actually processed)
// and avoid double-charging.  A caller who replays requests across
// sessions can supply its own key via AdoptIdempotencyKey.
type Session struct {
	MovieID        string
	MovieTitle     string
	Showtime       model.Showtime
	Seats          []SeatID // row-major, non-empty
	UnitPriceCents uint32
	IdempotencyKey string
}

// newSession snapshots the selection defensively: the seat slice is
// copied so mutation of the source cannot reach the session.
func newSession(movieID, movieTitle string, st model.Showtime, seats []SeatID, unitPriceCents uint32) *Session {
	frozen := make([]SeatID, len(seats))
	copy(frozen, seats)
	return &Session{
		MovieID:        movieID,
		MovieTitle:     movieTitle,
		Showtime:       st,
		Seats:          frozen,
		UnitPriceCents: unitPriceCents,
		IdempotencyKey: uuid.New().String(),
	}
}

// AdoptIdempotencyKey replaces the minted key with one supplied by
// the caller.  A client that retries a timed-out request with the
// same key keeps the processor's duplicate detection working even
// though each attempt builds a fresh session.  An empty key is
// ignored and the minted key stands.
func (s *Session) AdoptIdempotencyKey(key string) {
	if key != "" {
		s.IdempotencyKey = key
	}
}

// TotalCents is the session price: unit price times seat count.
// Prices stay in integer cents throughout; formatting to two decimals
// happens only at display time.
func (s *Session) TotalCents() uint32 {
	return s.UnitPriceCents * uint32(len(s.Seats))
}

// SeatLabels returns the frozen seats as display labels.
func (s *Session) SeatLabels() []string {
	return Labels(s.Seats)
}

// FormatCents renders an amount of cents as a dollar string with two
// decimals, e.g. 4500 -> "45.00".
func FormatCents(cents uint32) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
