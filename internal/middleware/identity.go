package middleware

// identity.go holds helpers that read the caller identity stored by
// JWTAuth.

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// userID returns the token subject, or "anon" for unauthenticated
// requests.
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// RequireSelfOrRole lets the request through when the path parameter
// param equals the token subject, or the caller holds one of roles.
func RequireSelfOrRole(param string, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, _ := c.Get(ctxRole).(string); allowed[role] {
				return next(c)
			}
			if sub := userID(c); sub != "anon" && sub == c.Param(param) {
				return next(c)
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
