package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/model"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
)

// UserBookingsHandler lists a single user's bookings.
type UserBookingsHandler struct {
	Bookings repository.BookingStore
	Log      *zap.Logger
}

func NewUserBookingsHandler(bookings repository.BookingStore, log *zap.Logger) *UserBookingsHandler {
	return &UserBookingsHandler{Bookings: bookings, Log: log}
}

// List handles GET /api/user/:userId/bookings.  The user reference is
// returned as the plain id; an id the store cannot parse matches nothing.
func (h *UserBookingsHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, c.Param("userId"))
	if err != nil && !errors.Is(err, repository.ErrInvalidID) {
		return fail(c, h.Log, "user_bookings", InternalError, "Failed to fetch bookings", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
