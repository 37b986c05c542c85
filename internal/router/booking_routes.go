package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/friendly-voice-api/internal/handler"
	"github.com/iliyamo/friendly-voice-api/internal/middleware"
	"github.com/iliyamo/friendly-voice-api/internal/utils"
)

// userGuards let a user read their own bookings and the admin read anyone's.
func userGuards(secret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(secret),
		middleware.RequireSelfOrRole("userId", utils.RoleAdmin),
	}
}

// RegisterPayment registers order creation and payment verification.
// Both are open: the client holds the user id after login.
func RegisterPayment(g *echo.Group, h *handler.PaymentHandler) {
	g.POST("/create-order", h.CreateOrder)
	g.POST("/verify-payment", h.VerifyPayment)
}

// RegisterUser registers the per-user booking history.
func RegisterUser(g *echo.Group, h *handler.UserBookingsHandler, guards ...echo.MiddlewareFunc) {
	g.GET("/user/:userId/bookings", h.List, guards...)
}
