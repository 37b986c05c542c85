package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers GET / with the service banner.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "✅ Friendly Voice API is running"})
}

// Health is a plain-text probe for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
