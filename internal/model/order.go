package model

import "time"

// Receipt is the proof of a completed payment returned by the
// submission service.  It is terminal: nothing in this application
// mutates a receipt after it has been issued.
//
// Fields:
//  TransactionID – identifier assigned by the payment processor.
//  PaymentType   – card network the payment was charged against.
//  Timestamp     – when the payment was processed, in UTC.
type Receipt struct {
	TransactionID string    `json:"transactionId"`
	PaymentType   string    `json:"paymentType"`
	Timestamp     time.Time `json:"timestamp"`
}

// Order records a completed purchase for the order history view.  It
// aggregates the movie, showtime, seats and price of one checkout
// together with the receipt issued by the payment processor.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who made the purchase.
//  MovieID       – movie the tickets are for.
//  MovieTitle    – title captured at purchase time.
//  ShowtimeID    – showtime the seats belong to.
//  ShowtimeLabel – display time captured at purchase time.
//  Seats         – seat labels (e.g. "A1") included in the purchase.
//  TotalCents    – total charged in cents.
//  TransactionID – payment transaction reference.
//  PaymentType   – card network used for the payment.
//  PurchasedAt   – when the purchase completed.
type Order struct {
	ID            uint64    `json:"id"`             // orders.id
	UserID        string    `json:"user_id"`        // orders.user_id
	MovieID       string    `json:"movie_id"`       // orders.movie_id
	MovieTitle    string    `json:"movie_title"`    // orders.movie_title
	ShowtimeID    string    `json:"showtime_id"`    // orders.showtime_id
	ShowtimeLabel string    `json:"showtime_label"` // orders.showtime_label
	Seats         []string  `json:"seats"`          // orders.seats (comma separated in storage)
	TotalCents    uint32    `json:"total_cents"`    // orders.total_cents
	TransactionID string    `json:"transaction_id"` // orders.transaction_id
	PaymentType   string    `json:"payment_type"`   // orders.payment_type
	PurchasedAt   time.Time `json:"purchased_at"`   // orders.purchased_at
}
