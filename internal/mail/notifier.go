package mail

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// BookingDetails are the values embedded in both booking emails.
type BookingDetails struct {
	UserName  string
	UserEmail string
	UserPhone string
	PaymentID string
	Amount    float64
	Duration  float64
	BookedAt  time.Time
}

// AmountText formats the amount the way it was entered (499, 19.5).
func (d BookingDetails) AmountText() string {
	return strconv.FormatFloat(d.Amount, 'f', -1, 64)
}

// BookedAtText is the local-time stamp shown to the admin.
func (d BookingDetails) BookedAtText() string {
	return d.BookedAt.Local().Format("1/2/2006, 3:04:05 PM")
}

// Notifier sends the two booking emails.  Each send is a separate call so
// the caller can tell which one failed.
type Notifier struct {
	Sender  Sender
	AdminTo string
}

func NewNotifier(s Sender, adminTo string) *Notifier {
	return &Notifier{Sender: s, AdminTo: adminTo}
}

// SendConfirmation emails the customer.
func (n *Notifier) SendConfirmation(ctx context.Context, d BookingDetails) error {
	body, err := render(confirmationTmpl, d)
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}
	return n.Sender.Send(ctx, d.UserEmail, confirmationSubject, body)
}

// SendAdminAlert emails the admin notification address.
func (n *Notifier) SendAdminAlert(ctx context.Context, d BookingDetails) error {
	body, err := render(adminTmpl, d)
	if err != nil {
		return fmt.Errorf("render admin alert: %w", err)
	}
	return n.Sender.Send(ctx, n.AdminTo, adminSubject, body)
}
