package repository

import (
	"context"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// UserStore persists accounts.
type UserStore interface {
	// Create stores u, filling in u.ID.  Returns ErrEmailExists on a
	// duplicate email.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail returns ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// AppendBooking adds bookingID to the end of the user's booking list.
	// A missing user is not an error.
	AppendBooking(ctx context.Context, userID, bookingID string) error
	// ListWithBookings returns every user with booking references resolved.
	ListWithBookings(ctx context.Context) ([]model.UserWithBookings, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	// Create stores b, filling in b.ID.
	Create(ctx context.Context, b *model.Booking) error
	// ListAll returns all bookings, newest first, with the user expanded.
	ListAll(ctx context.Context) ([]model.Booking, error)
	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	// UpdateStatus overwrites the status and returns the updated booking, or
	// ErrNotFound.
	UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error)
}
