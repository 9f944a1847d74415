package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// stubPayments records the last request and returns a canned result.
type stubPayments struct {
	receipt *model.Receipt
	err     error
	calls   int
	lastReq PaymentRequest
}

func (p *stubPayments) SubmitPayment(_ context.Context, req PaymentRequest) (*model.Receipt, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return p.receipt, nil
}

// statusErr mimics the payment client's typed HTTP error.
type statusErr struct{ status int }

func (e *statusErr) Error() string   { return "unexpected status" }
func (e *statusErr) StatusCode() int { return e.status }

type noSeatsQuerier struct{}

func (noSeatsQuerier) FetchReservedSeats(context.Context, string) ([]booking.SeatID, error) {
	return nil, nil
}

func confirmedFlow(t *testing.T) (*booking.Flow, *booking.Session) {
	t.Helper()
	f := booking.NewFlow(noSeatsQuerier{}, 1500)
	f.SetMovie("m1", "Arrival")
	f.ChangeShowtime(context.Background(), model.Showtime{ID: "st1", Time: "7:30 PM"})
	for _, label := range []string{"A1", "A2", "B3"} {
		s, err := booking.ParseSeatID(label)
		require.NoError(t, err)
		f.Toggle(s)
	}
	session, err := f.Confirm()
	require.NoError(t, err)
	return f, session
}

func newTestSubmitter(service PaymentService) *Submitter {
	s := NewSubmitter(service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSubmitSuccessClearsFlow(t *testing.T) {
	payments := &stubPayments{receipt: &model.Receipt{
		TransactionID: "txn-42",
		PaymentType:   "visa",
		Timestamp:     fixedNow,
	}}
	flow, session := confirmedFlow(t)
	sub := newTestSubmitter(payments)

	receipt, err := sub.Submit(context.Background(), flow, session, validCard())

	require.NoError(t, err)
	assert.Equal(t, "txn-42", receipt.TransactionID)
	assert.Equal(t, 1, payments.calls)
	assert.Equal(t, uint32(4500), payments.lastReq.TotalCents)
	assert.Equal(t, []string{"A1", "A2", "B3"}, payments.lastReq.Seats)
	assert.Equal(t, "st1", payments.lastReq.ShowtimeID)
	assert.Equal(t, CardVisa, payments.lastReq.Type)
	assert.Equal(t, session.IdempotencyKey, payments.lastReq.IdempotencyKey)

	// success clears all of the originating selection state
	assert.Equal(t, booking.StateSucceeded, flow.State())
	assert.Nil(t, flow.Showtime())
	assert.Empty(t, flow.Selected())
}

func TestSubmitInvalidCardSkipsNetwork(t *testing.T) {
	payments := &stubPayments{}
	flow, session := confirmedFlow(t)
	sub := newTestSubmitter(payments)

	card := validCard()
	card.Number = "4111111111111112"
	_, err := sub.Submit(context.Background(), flow, session, card)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Invalid card number", fieldErrs["cardNumber"])
	assert.Equal(t, 0, payments.calls)

	// flow untouched: the user corrects the form and resubmits
	assert.Equal(t, booking.StateConfirmed, flow.State())
	assert.Len(t, flow.Selected(), 3)
}

func TestSubmitNetworkFailureIsRetryable(t *testing.T) {
	payments := &stubPayments{err: errors.New("dial tcp: i/o timeout")}
	flow, session := confirmedFlow(t)
	sub := newTestSubmitter(payments)

	_, err := sub.Submit(context.Background(), flow, session, validCard())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, CategoryNetwork, subErr.Category)

	// selection and session survive for retry
	assert.Equal(t, booking.StateFailed, flow.State())
	assert.Len(t, flow.Selected(), 3)
	assert.Len(t, session.Seats, 3)

	// retry reuses the same idempotency key
	payments.err = nil
	payments.receipt = &model.Receipt{TransactionID: "txn-43"}
	_, err = sub.Submit(context.Background(), flow, session, validCard())
	require.NoError(t, err)
	assert.Equal(t, session.IdempotencyKey, payments.lastReq.IdempotencyKey)
}

func TestSubmitCategorizesServerAndAuthFailures(t *testing.T) {
	cases := []struct {
		status int
		want   Category
	}{
		{500, CategoryServer},
		{502, CategoryServer},
		{400, CategoryServer},
		{401, CategoryUnauthorized},
		{403, CategoryUnauthorized},
	}
	for _, tc := range cases {
		payments := &stubPayments{err: &statusErr{status: tc.status}}
		flow, session := confirmedFlow(t)
		sub := newTestSubmitter(payments)

		_, err := sub.Submit(context.Background(), flow, session, validCard())

		var subErr *SubmissionError
		require.ErrorAs(t, err, &subErr, tc.status)
		assert.Equal(t, tc.want, subErr.Category, tc.status)
	}
}

func TestSubmitWithoutSessionFails(t *testing.T) {
	payments := &stubPayments{}
	flow, _ := confirmedFlow(t)
	sub := newTestSubmitter(payments)

	_, err := sub.Submit(context.Background(), flow, nil, validCard())
	require.Error(t, err)
	assert.Equal(t, 0, payments.calls)
}
