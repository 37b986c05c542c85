package model

import (
    "encoding/json"
    "time"
)

// Booking statuses.  The admin update path may store other values
// unless strict status checking is enabled.
const (
    StatusPending   = "pending"
    StatusCompleted = "completed"
    StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusCompleted, StatusCancelled:
        return true
    }
    return false
}

// Booking records a paid call.  The contact fields are a snapshot taken
// at booking time and are not updated when the user changes.
//
// Fields:
//  ID            – generated identifier.
//  User          – owning user, either a bare id or an expanded summary.
//  PaymentID     – provider payment identifier.
//  OrderID       – provider order identifier (optional).
//  Amount        – amount paid in major currency units, as sent by the client.
//  Duration      – call length in minutes; older records may be fractional.
//  Status        – pending, completed or cancelled.
//  ScheduledDate – optional call date.
//  BookingDate   – creation timestamp, set once.
type Booking struct {
    ID            string     `json:"_id"`
    User          UserRef    `json:"user"`
    PaymentID     string     `json:"paymentId"`
    OrderID       string     `json:"orderId,omitempty"`
    Amount        float64    `json:"amount"`
    Duration      float64    `json:"duration"`
    Status        string     `json:"status"`
    UserName      string     `json:"userName"`
    UserEmail     string     `json:"userEmail"`
    UserPhone     string     `json:"userPhone"`
    ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
    BookingDate   time.Time  `json:"bookingDate"`
}

// UserRef references the owning user.  When Expanded is set it
// serializes as the summary object (null if the user no longer
// resolves), otherwise as the plain id.
type UserRef struct {
    ID       string
    Summary  *UserSummary
    Expanded bool
}

// MarshalJSON implements json.Marshaler.
func (r UserRef) MarshalJSON() ([]byte, error) {
    if r.Expanded {
        return json.Marshal(r.Summary)
    }
    return json.Marshal(r.ID)
}
