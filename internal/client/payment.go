package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/checkout"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PaymentClient submits payments to the remote payment service.  It
// implements checkout.PaymentService.
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPaymentClient builds a client for the payment service at
// baseURL.  A zero timeout defaults to thirty seconds; payment
// submissions are given more room than catalog reads because they
// run to completion once issued.
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PaymentClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// paymentIntentRequest is the wire payload of the payment service.
type paymentIntentRequest struct {
	Type       string   `json:"type"`
	Total      uint32   `json:"total"`
	Date       string   `json:"date"`
	ShowtimeID string   `json:"showtimeId"`
	Seats      []string `json:"seats"`
}

// paymentIntentResponse is the wire shape of a successful payment.
type paymentIntentResponse struct {
	TransactionID string `json:"transactionID"`
	Type          string `json:"type"`
	Date          string `json:"date"`
}

// SubmitPayment sends the frozen session's payment to the processor.
// The session's idempotency key travels in the Idempotency-Key header
// so the processor can collapse an ambiguous retry into the original
// charge.  Non-2xx responses come back as StatusError; transport
// failures are returned as-is.
func (c *PaymentClient) SubmitPayment(ctx context.Context, req checkout.PaymentRequest) (*model.Receipt, error) {
	body, err := json.Marshal(paymentIntentRequest{
		Type:       req.Type,
		Total:      req.TotalCents,
		Date:       req.Date,
		ShowtimeID: req.ShowtimeID,
		Seats:      req.Seats,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/create-payment-intent", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &StatusError{Status: res.StatusCode, Body: string(snippet)}
	}

	var payload paymentIntentResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		// tolerate a missing or odd timestamp; the receipt is still valid
		ts = time.Now().UTC()
	}
	return &model.Receipt{
		TransactionID: payload.TransactionID,
		PaymentType:   payload.Type,
		Timestamp:     ts,
	}, nil
}
