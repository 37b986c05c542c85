package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorKind classifies a failed request.  Every handler reports failures
// as {"error": "<short message>"} with the kind's status; the cause is
// only logged.
type ErrorKind string

const (
	ValidationError      ErrorKind = "validation"       // missing or malformed input
	ConflictError        ErrorKind = "conflict"         // duplicate email
	NotFoundError        ErrorKind = "not_found"        // unknown account
	AuthError            ErrorKind = "auth"             // bad credentials
	ExternalServiceError ErrorKind = "external_service" // payment or email provider
	InternalError        ErrorKind = "internal"         // persistence or unexpected
)

// Status maps the kind to its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case ValidationError, ConflictError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail logs the failure and writes the error body.  Server-side kinds are
// logged at error level with the cause.
func fail(c echo.Context, log *zap.Logger, op string, kind ErrorKind, msg string, cause error) error {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if kind.Status() >= http.StatusInternalServerError {
		log.Error(msg, fields...)
	} else {
		log.Info(msg, fields...)
	}
	return c.JSON(kind.Status(), echo.Map{"error": msg})
}
