package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// bookingColumns is the column list scanned by scanBooking, aliased on b.
const bookingColumns = "b.id, b.user_id, b.payment_id, b.order_id, b.amount, b.duration, b.status, " +
	"b.user_name, b.user_email, b.user_phone, b.scheduled_date, b.booking_date"

// BookingRepo is the MySQL BookingStore.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBooking reads bookingColumns followed by any extra destinations.
func scanBooking(s rowScanner, extra ...any) (model.Booking, error) {
	var (
		b         model.Booking
		orderID   sql.NullString
		scheduled sql.NullTime
	)
	dest := append([]any{
		&b.ID, &b.User.ID, &b.PaymentID, &orderID, &b.Amount, &b.Duration, &b.Status,
		&b.UserName, &b.UserEmail, &b.UserPhone, &scheduled, &b.BookingDate,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return model.Booking{}, fmt.Errorf("scan booking: %w", err)
	}
	b.OrderID = orderID.String
	if scheduled.Valid {
		t := scheduled.Time
		b.ScheduledDate = &t
	}
	return b, nil
}

// Create inserts b with a fresh UUID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	id := uuid.NewString()
	var orderID sql.NullString
	if b.OrderID != "" {
		orderID = sql.NullString{String: b.OrderID, Valid: true}
	}
	var scheduled sql.NullTime
	if b.ScheduledDate != nil {
		scheduled = sql.NullTime{Time: *b.ScheduledDate, Valid: true}
	}
	const q = `INSERT INTO bookings (id, user_id, payment_id, order_id, amount, duration, status,
		user_name, user_email, user_phone, scheduled_date, booking_date) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, q,
		id, b.User.ID, b.PaymentID, orderID, b.Amount, b.Duration, b.Status,
		b.UserName, b.UserEmail, b.UserPhone, scheduled, b.BookingDate); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return nil
}

// ListAll returns every booking newest first with the owner's contact
// summary.  A dangling user reference expands to null.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+", u.id, u.name, u.email, u.phone FROM bookings b "+
			"LEFT JOIN users u ON u.id = b.user_id ORDER BY b.booking_date DESC")
	if err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var uid, name, email, phone sql.NullString
		b, err := scanBooking(rows, &uid, &name, &email, &phone)
		if err != nil {
			return nil, err
		}
		b.User.Expanded = true
		if uid.Valid {
			b.User.Summary = &model.UserSummary{ID: uid.String, Name: name.String, Email: email.String, Phone: phone.String}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}

// ListByUser returns the bookings referencing userID, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.user_id = ? ORDER BY b.booking_date DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("select user bookings: %w", err)
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user bookings: %w", err)
	}
	return out, nil
}

// UpdateStatus writes status verbatim and reads the row back.  MySQL
// reports zero affected rows for a no-op update, so existence is decided
// by the read.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	if _, err := r.db.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", status, id); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
