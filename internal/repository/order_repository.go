package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// OrderRepo persists completed purchases for the order history view.
// One row per checkout; the seat labels of an order are stored
// denormalized as a comma separated list since they are only ever
// read back as a whole.  All timestamps are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a completed order and populates the generated ID on
// the provided model.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders
	           (user_id, movie_id, movie_title, showtime_id, showtime_label, seats, total_cents, transaction_id, payment_type, purchased_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		o.UserID, o.MovieID, o.MovieTitle, o.ShowtimeID, o.ShowtimeLabel,
		strings.Join(o.Seats, ","), o.TotalCents, o.TransactionID, o.PaymentType, o.PurchasedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// ListByUser returns a user's orders, most recent purchase first.
// When the user has no orders the result is an empty slice, not nil
// rows treated as an error.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	const q = `SELECT id, user_id, movie_id, movie_title, showtime_id, showtime_label, seats, total_cents, transaction_id, payment_type, purchased_at
	           FROM orders WHERE user_id = ? ORDER BY purchased_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetByIDForUser loads a single order, enforcing ownership in the
// query itself so a foreign order is indistinguishable from a missing
// one.  Returns ErrOrderNotFound when no row matches.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, id uint64, userID string) (*model.Order, error) {
	const q = `SELECT id, user_id, movie_id, movie_title, showtime_id, showtime_label, seats, total_cents, transaction_id, payment_type, purchased_at
	           FROM orders WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, q, id, userID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// rowScanner is the shared subset of *sql.Row and *sql.Rows used by
// scanOrder.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	var seats string
	if err := row.Scan(&o.ID, &o.UserID, &o.MovieID, &o.MovieTitle, &o.ShowtimeID, &o.ShowtimeLabel,
		&seats, &o.TotalCents, &o.TransactionID, &o.PaymentType, &o.PurchasedAt); err != nil {
		return model.Order{}, err
	}
	if seats != "" {
		o.Seats = strings.Split(seats, ",")
	}
	return o, nil
}
