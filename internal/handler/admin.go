package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/model"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
)

// AdminHandler serves the administrative listing and status endpoints.
type AdminHandler struct {
	Users        repository.UserStore
	Bookings     repository.BookingStore
	StrictStatus bool // reject statuses outside pending/completed/cancelled
	Log          *zap.Logger
}

func NewAdminHandler(users repository.UserStore, bookings repository.BookingStore, strict bool, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Users: users, Bookings: bookings, StrictStatus: strict, Log: log}
}

// ListUsers returns every user with their bookings expanded in list order.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.ListWithBookings(ctx)
	if err != nil {
		return fail(c, h.Log, "list_users", InternalError, "Failed to fetch users", err)
	}
	if users == nil {
		users = []model.UserWithBookings{}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// ListBookings returns all bookings, newest first, with user contact
// summaries.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return fail(c, h.Log, "list_bookings", InternalError, "Failed to fetch bookings", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PUT /api/admin/booking/:bookingId/status.
// An unknown id is not an error: the response carries booking: null.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	const op = "update_booking_status"
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, op, ValidationError, "Invalid request body", err)
	}
	if h.StrictStatus && !model.ValidStatus(strings.TrimSpace(req.Status)) {
		return fail(c, h.Log, op, ValidationError, "Invalid status", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("bookingId")
	b, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		b = nil
	case err != nil:
		return fail(c, h.Log, op, InternalError, "Failed to update booking", err)
	default:
		h.Log.Info("booking status updated", zap.String("booking_id", id), zap.String("status", req.Status))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking status updated", "booking": b})
}
