package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// Collection names shared with existing deployments.
const (
	usersCollection    = "users"
	bookingsCollection = "bookings"
)

// userDoc is the stored shape of a user.  The hash lives under "password"
// to stay compatible with documents written by earlier releases.
type userDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password,omitempty"`
	Phone        string               `bson:"phone"`
	RegisteredAt time.Time            `bson:"registeredAt"`
	Bookings     []primitive.ObjectID `bson:"bookings"`
}

type bookingDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	PaymentID     string             `bson:"paymentId"`
	OrderID       string             `bson:"orderId,omitempty"`
	Amount        float64            `bson:"amount"`
	Duration      float64            `bson:"duration"`
	Status        string             `bson:"status"`
	UserName      string             `bson:"userName"`
	UserEmail     string             `bson:"userEmail"`
	UserPhone     string             `bson:"userPhone"`
	ScheduledDate *time.Time         `bson:"scheduledDate,omitempty"`
	BookingDate   time.Time          `bson:"bookingDate"`
}

func (d userDoc) toModel() model.User {
	ids := make([]string, 0, len(d.Bookings))
	for _, b := range d.Bookings {
		ids = append(ids, b.Hex())
	}
	return model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Phone:        d.Phone,
		RegisteredAt: d.RegisteredAt,
		Bookings:     ids,
	}
}

func (d bookingDoc) toModel() model.Booking {
	return model.Booking{
		ID:            d.ID.Hex(),
		User:          model.UserRef{ID: d.User.Hex()},
		PaymentID:     d.PaymentID,
		OrderID:       d.OrderID,
		Amount:        d.Amount,
		Duration:      d.Duration,
		Status:        d.Status,
		UserName:      d.UserName,
		UserEmail:     d.UserEmail,
		UserPhone:     d.UserPhone,
		ScheduledDate: d.ScheduledDate,
		BookingDate:   d.BookingDate,
	}
}

func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
