package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Category classifies a submission failure coarsely for the user.
// Every category is retryable: the originating session and selection
// are preserved so a retry does not require re-selecting seats.
type Category string

const (
	CategoryNetwork      Category = "network"
	CategoryServer       Category = "server"
	CategoryUnauthorized Category = "unauthorized"
)

// SubmissionError wraps a failed payment submission with its
// category.  The underlying cause is kept for logging.
type SubmissionError struct {
	Category Category
	Err      error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("payment submission failed (%s): %v", e.Category, e.Err)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *SubmissionError) Unwrap() error { return e.Err }

// StatusCoder is implemented by transport errors that carry an HTTP
// status code.  The payment client's typed errors satisfy it; errors
// without a status are treated as network failures.
type StatusCoder interface {
	StatusCode() int
}

// PaymentRequest is the payload handed to the submission service for
// one frozen session.
type PaymentRequest struct {
	Type           string   // card network, e.g. "visa"
	TotalCents     uint32   // amount in minor units
	Date           string   // submission timestamp, RFC 3339
	ShowtimeID     string   // showtime the seats belong to
	Seats          []string // seat labels in row-major order
	IdempotencyKey string   // minted once per session
}

// PaymentService submits a payment to the remote processor.
type PaymentService interface {
	SubmitPayment(ctx context.Context, req PaymentRequest) (*model.Receipt, error)
}

// Submitter drives the final checkout step: validate the instrument
// locally, submit the frozen session, and settle the flow state.
type Submitter struct {
	service PaymentService
	now     func() time.Time // injectable clock for expiry validation
}

// NewSubmitter builds a Submitter around the given payment service.
func NewSubmitter(service PaymentService) *Submitter {
	if service == nil {
		panic("nil service passed to NewSubmitter")
	}
	return &Submitter{service: service, now: time.Now}
}

// Submit validates the payment instrument and sends the session to
// the payment service.
//
// On a validation failure it returns FieldErrors without touching the
// network or the flow.  On a transport or server failure it returns a
// categorized SubmissionError and leaves the flow and session intact
// for retry.  On success it clears the originating flow (movie,
// showtime and seats) so the same seats cannot be submitted twice,
// and returns the receipt.
func (s *Submitter) Submit(ctx context.Context, flow *booking.Flow, session *booking.Session, card CardDetails) (*model.Receipt, error) {
	if session == nil || len(session.Seats) == 0 {
		return nil, errors.New("no confirmed session to submit")
	}
	if fieldErrs := ValidateCard(card, s.now()); fieldErrs != nil {
		return nil, fieldErrs
	}

	flow.MarkSubmitting()
	req := PaymentRequest{
		Type:           DetectCardType(card.Number),
		TotalCents:     session.TotalCents(),
		Date:           s.now().UTC().Format(time.RFC3339),
		ShowtimeID:     session.Showtime.ID,
		Seats:          session.SeatLabels(),
		IdempotencyKey: session.IdempotencyKey,
	}

	receipt, err := s.service.SubmitPayment(ctx, req)
	if err != nil {
		flow.MarkFailed()
		subErr := &SubmissionError{Category: categorize(err), Err: err}
		log.Printf("checkout: submission for showtime %s failed: %v", session.Showtime.ID, subErr)
		return nil, subErr
	}

	flow.Reset()
	return receipt, nil
}

// categorize maps a submit error to its coarse category.  Errors
// carrying a status code split into unauthorized (401/403) and server
// (everything else the server answered); errors without a status are
// network failures.
func categorize(err error) Category {
	var sc StatusCoder
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case 401, 403:
			return CategoryUnauthorized
		default:
			return CategoryServer
		}
	}
	return CategoryNetwork
}
