// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published when a checkout completes and the
// payment service has issued a receipt.  It carries enough detail for
// downstream consumers to log, notify, or feed analytics without
// calling back into the gateway.
type TicketPurchasedEvent struct {
	OrderID       uint64   `json:"order_id"`
	UserID        string   `json:"user_id"`
	MovieID       string   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	ShowtimeID    string   `json:"showtime_id"`
	ShowtimeLabel string   `json:"showtime_label"`
	Seats         []string `json:"seats"`
	TotalCents    uint32   `json:"total_cents"`
	TransactionID string   `json:"transaction_id"`
	PaymentType   string   `json:"payment_type"`
	PurchasedAt   string   `json:"purchased_at"`
}
