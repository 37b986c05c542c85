package router // router wires handlers and middleware onto echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/handler"
	"github.com/iliyamo/friendly-voice-api/internal/metrics"
	"github.com/iliyamo/friendly-voice-api/internal/middleware"
)

// Handlers groups the endpoint handlers mounted under /api.
type Handlers struct {
	Auth         *handler.AuthHandler
	Payment      *handler.PaymentHandler
	Admin        *handler.AdminHandler
	UserBookings *handler.UserBookingsHandler
}

// Options controls the optional middleware.
type Options struct {
	FrontendURL string
	// JWTSecret and RequireAuth together enable the admin and user guards.
	JWTSecret   string
	RequireAuth bool
	// RateLimit is applied to every /api route; nil disables it.
	RateLimit echo.MiddlewareFunc
}

// New builds the echo instance with global middleware and all routes.
func New(h Handlers, opts Options, m *metrics.Metrics, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(corsConfig(opts.FrontendURL)))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics(m))

	RegisterRoutes(e, m)

	api := e.Group("/api")
	if opts.RateLimit != nil {
		api.Use(opts.RateLimit)
	}
	RegisterAuth(api, h.Auth)
	RegisterPayment(api, h.Payment)

	var adminGuard, userGuard []echo.MiddlewareFunc
	if opts.RequireAuth && opts.JWTSecret != "" {
		adminGuard = adminGuards(opts.JWTSecret)
		userGuard = userGuards(opts.JWTSecret)
	}
	RegisterAdmin(api, h.Admin, adminGuard...)
	RegisterUser(api, h.UserBookings, userGuard...)
	return e
}

// corsConfig allows the configured frontend origin.  Credentials are only
// allowed for a concrete origin; browsers reject them with "*".
func corsConfig(origin string) echomw.CORSConfig {
	if origin == "" {
		origin = "*"
	}
	return echomw.CORSConfig{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: origin != "*",
	}
}

// RegisterRoutes registers the unauthenticated service endpoints: the
// banner, a health probe for load balancers and the Prometheus scrape.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterAuth registers signup and login.  Neither keeps a session.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
}
