package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/mail"
	"github.com/iliyamo/friendly-voice-api/internal/metrics"
	"github.com/iliyamo/friendly-voice-api/internal/model"
	"github.com/iliyamo/friendly-voice-api/internal/payment"
	"github.com/iliyamo/friendly-voice-api/internal/queue"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
)

// providerTimeout bounds order creation and each email send.
const providerTimeout = 15 * time.Second

// BookingNotifier sends the customer and admin booking emails.
type BookingNotifier interface {
	SendConfirmation(ctx context.Context, d mail.BookingDetails) error
	SendAdminAlert(ctx context.Context, d mail.BookingDetails) error
}

// EventPublisher announces persisted bookings.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// PaymentHandler creates provider orders and records paid bookings.
type PaymentHandler struct {
	Orders   payment.OrderCreator
	Currency string
	Users    repository.UserStore
	Bookings repository.BookingStore
	Notifier BookingNotifier
	Events   EventPublisher // nil disables booking events
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	Now      func() time.Time
}

func NewPaymentHandler(
	orders payment.OrderCreator,
	currency string,
	users repository.UserStore,
	bookings repository.BookingStore,
	notifier BookingNotifier,
	events EventPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		Orders:   orders,
		Currency: currency,
		Users:    users,
		Bookings: bookings,
		Notifier: notifier,
		Events:   events,
		Metrics:  m,
		Log:      log,
		Now:      time.Now,
	}
}

type createOrderReq struct {
	Amount float64 `json:"amount"`
}

type createOrderResp struct {
	OrderID string `json:"orderId"`
	Amount  int64  `json:"amount"`
}

// CreateOrder handles POST /api/create-order.  The client sends major
// units; the provider receives and reports minor units.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	const op = "create_order"
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, op, ValidationError, "Invalid request body", err)
	}
	if req.Amount <= 0 {
		return fail(c, h.Log, op, ValidationError, "Amount must be positive", nil)
	}
	minor, err := payment.ToMinorUnits(req.Amount)
	if err != nil {
		return fail(c, h.Log, op, ValidationError, "Amount is out of range", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), providerTimeout)
	defer cancel()

	order, err := h.Orders.CreateOrder(ctx, payment.OrderRequest{
		Amount:   minor,
		Currency: h.Currency,
		Receipt:  payment.NewReceipt(h.Now()),
	})
	if err != nil {
		return fail(c, h.Log, op, ExternalServiceError, "Failed to create order", err)
	}
	h.Metrics.OrdersCreated.Inc()
	h.Log.Info("payment order created", zap.String("order_id", order.ID), zap.Int64("amount", order.Amount))
	return c.JSON(http.StatusOK, createOrderResp{OrderID: order.ID, Amount: order.Amount})
}

type verifyPaymentReq struct {
	PaymentID     string     `json:"paymentId"`
	OrderID       string     `json:"orderId"`
	UserID        string     `json:"userId"`
	Amount        float64    `json:"amount"`
	Duration      float64    `json:"duration"`
	UserName      string     `json:"userName"`
	UserEmail     string     `json:"userEmail"`
	UserPhone     string     `json:"userPhone"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

func (r *verifyPaymentReq) complete() bool {
	r.PaymentID = strings.TrimSpace(r.PaymentID)
	r.OrderID = strings.TrimSpace(r.OrderID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	return r.PaymentID != "" && r.UserID != "" && r.UserName != "" &&
		r.UserEmail != "" && r.UserPhone != "" && r.Amount > 0 && r.Duration > 0
}

// Step labels used in logs and the step failure counter.
const (
	stepPersist      = "persist_booking"
	stepLinkUser     = "link_user"
	stepPublish      = "publish_event"
	stepConfirmEmail = "confirmation_email"
	stepAdminEmail   = "admin_email"
)

// VerifyPayment handles POST /api/verify-payment.  The payment signature
// is not checked.  The steps run in order with no rollback: a failure
// after the insert leaves the booking in place.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	const op = "verify_payment"
	var req verifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, op, ValidationError, "Invalid request body", err)
	}
	if !req.complete() {
		return fail(c, h.Log, op, ValidationError, "Missing payment or booking details", nil)
	}

	reqCtx := c.Request().Context()
	now := h.Now().UTC()
	b := &model.Booking{
		User:          model.UserRef{ID: req.UserID},
		PaymentID:     req.PaymentID,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Duration:      req.Duration,
		Status:        model.StatusPending,
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		UserPhone:     req.UserPhone,
		ScheduledDate: req.ScheduledDate,
		BookingDate:   now,
	}

	dbCtx, cancel := context.WithTimeout(reqCtx, dbTimeout)
	defer cancel()

	if err := h.Bookings.Create(dbCtx, b); err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return fail(c, h.Log, op, ValidationError, "Invalid user id", err)
		}
		return h.stepFailed(c, op, stepPersist, InternalError, err)
	}
	h.Metrics.BookingsCreated.Inc()
	log := h.Log.With(zap.String("booking_id", b.ID), zap.String("user_id", req.UserID))

	if err := h.Users.AppendBooking(dbCtx, req.UserID, b.ID); err != nil {
		return h.stepFailed(c, op, stepLinkUser, InternalError, err, zap.String("booking_id", b.ID))
	}

	if h.Events != nil {
		if err := h.Events.PublishBookingCreated(reqCtx, bookingEvent(b)); err != nil {
			h.Metrics.StepFailures.WithLabelValues(stepPublish).Inc()
			log.Warn("booking event not published", zap.Error(err))
		}
	}

	details := mail.BookingDetails{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		UserPhone: req.UserPhone,
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Duration:  req.Duration,
		BookedAt:  now,
	}

	mailCtx, cancelMail := context.WithTimeout(reqCtx, providerTimeout)
	defer cancelMail()

	if err := h.Notifier.SendConfirmation(mailCtx, details); err != nil {
		return h.stepFailed(c, op, stepConfirmEmail, ExternalServiceError, err, zap.String("booking_id", b.ID))
	}
	if err := h.Notifier.SendAdminAlert(mailCtx, details); err != nil {
		return h.stepFailed(c, op, stepAdminEmail, ExternalServiceError, err, zap.String("booking_id", b.ID))
	}

	log.Info("booking created", zap.String("payment_id", req.PaymentID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking created successfully", "bookingId": b.ID})
}

func (h *PaymentHandler) stepFailed(c echo.Context, op, step string, kind ErrorKind, err error, fields ...zap.Field) error {
	h.Metrics.StepFailures.WithLabelValues(step).Inc()
	log := h.Log.With(append(fields, zap.String("step", step))...)
	return fail(c, log, op, kind, "Payment verification failed", err)
}

func bookingEvent(b *model.Booking) queue.BookingCreatedEvent {
	return queue.BookingCreatedEvent{
		BookingID: b.ID,
		UserID:    b.User.ID,
		PaymentID: b.PaymentID,
		OrderID:   b.OrderID,
		Amount:    b.Amount,
		Duration:  b.Duration,
		Status:    b.Status,
		UserName:  b.UserName,
		UserEmail: b.UserEmail,
		UserPhone: b.UserPhone,
		BookedAt:  b.BookingDate.Format(time.RFC3339),
	}
}
