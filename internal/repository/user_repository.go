package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// UserRepo is the MySQL UserStore.  The booking list lives in the
// user_bookings table, ordered by its auto-increment seq column.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u with a fresh UUID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, phone, registered_at) VALUES (?,?,?,?,?,?)",
		id, u.Name, u.Email, u.PasswordHash, u.Phone, u.RegisteredAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	if u.Bookings == nil {
		u.Bookings = []string{}
	}
	return nil
}

// GetByEmail fetches a user by exact email.  The booking list is not
// loaded.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, phone, registered_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &u, nil
}

// AppendBooking links bookingID to the user.  The INSERT ... SELECT
// writes nothing when the user does not exist.
func (r *UserRepo) AppendBooking(ctx context.Context, userID, bookingID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_bookings (user_id, booking_id) SELECT id, ? FROM users WHERE id=?",
		bookingID, userID)
	if err != nil {
		return fmt.Errorf("append booking: %w", err)
	}
	return nil
}

// ListWithBookings loads all users, then their linked bookings in one
// query, and stitches them together in list order.
func (r *UserRepo) ListWithBookings(ctx context.Context) ([]model.UserWithBookings, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, phone, registered_at FROM users ORDER BY registered_at, id")
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []model.UserWithBookings{}
	index := map[string]int{}
	for rows.Next() {
		var u model.UserWithBookings
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Bookings = []model.Booking{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	brows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingColumns+", ub.user_id FROM user_bookings ub JOIN bookings b ON b.id = ub.booking_id ORDER BY ub.seq")
	if err != nil {
		return nil, fmt.Errorf("select user bookings: %w", err)
	}
	defer brows.Close()
	for brows.Next() {
		var owner string
		b, err := scanBooking(brows, &owner)
		if err != nil {
			return nil, err
		}
		if i, ok := index[owner]; ok {
			users[i].Bookings = append(users[i].Bookings, b)
		}
	}
	if err := brows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user bookings: %w", err)
	}
	return users, nil
}
