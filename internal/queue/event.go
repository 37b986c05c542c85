// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking is persisted.  It carries
// enough for downstream consumers (CRM, call scheduling) to act without
// reading the primary database.
type BookingCreatedEvent struct {
	BookingID string  `json:"booking_id"`
	UserID    string  `json:"user_id"`
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id,omitempty"`
	Amount    float64 `json:"amount"`
	Duration  float64 `json:"duration_min"`
	Status    string  `json:"status"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
	UserPhone string  `json:"user_phone"`
	BookedAt  string  `json:"booked_at"`
}
