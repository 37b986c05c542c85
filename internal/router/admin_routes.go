package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/friendly-voice-api/internal/handler"
	"github.com/iliyamo/friendly-voice-api/internal/middleware"
	"github.com/iliyamo/friendly-voice-api/internal/utils"
)

// adminGuards require a valid JWT carrying the ADMIN role.
func adminGuards(secret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(secret),
		middleware.RequireRole(utils.RoleAdmin),
	}
}

// RegisterAdmin registers the admin listing and status endpoints.  guards
// is empty unless admin auth is enabled.
func RegisterAdmin(g *echo.Group, h *handler.AdminHandler, guards ...echo.MiddlewareFunc) {
	a := g.Group("/admin", guards...)
	a.GET("/users", h.ListUsers)
	a.GET("/bookings", h.ListBookings)
	a.PUT("/booking/:bookingId/status", h.UpdateBookingStatus)
}
