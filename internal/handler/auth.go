package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/config"
	"github.com/iliyamo/friendly-voice-api/internal/model"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
	"github.com/iliyamo/friendly-voice-api/internal/utils"
)

// dbTimeout bounds each persistence call made by a handler.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for signup and login.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
	Log   *zap.Logger
	Now   func() time.Time
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: log, Now: time.Now}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	IsAdmin bool              `json:"isAdmin,omitempty"`
	Message string            `json:"message"`
	User    *model.PublicUser `json:"user,omitempty"`
	Token   string            `json:"token,omitempty"`
	Expires *time.Time        `json:"expires,omitempty"`
}

// Signup handles POST /api/signup: validate, reject known emails, hash the
// password and store the user.
func (h *AuthHandler) Signup(c echo.Context) error {
	const op = "signup"
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, op, ValidationError, "Invalid request body", err)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return fail(c, h.Log, op, ValidationError, "All fields are required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return fail(c, h.Log, op, ConflictError, "Email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fail(c, h.Log, op, InternalError, "Signup failed", err)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, h.Log, op, InternalError, "Signup failed", err)
	}

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		RegisteredAt: h.Now().UTC(),
	}
	if err := h.Users.Create(ctx, u); err != nil {
		// a concurrent signup can win between the lookup and the insert
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, h.Log, op, ConflictError, "Email already registered", nil)
		}
		return fail(c, h.Log, op, InternalError, "Signup failed", err)
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID))
	pub := u.Public()
	return c.JSON(http.StatusCreated, authResp{Message: "Account created successfully", User: &pub})
}

// Login handles POST /api/login.  The configured admin pair is checked
// first and never reaches the store.  No session is kept; when a JWT
// secret is configured the response also carries an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	const op = "login"
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, op, ValidationError, "Invalid request body", err)
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return fail(c, h.Log, op, ValidationError, "Email and password are required", nil)
	}

	if h.isAdmin(req.Email, req.Password) {
		resp := authResp{IsAdmin: true, Message: "Admin login successful"}
		if err := h.attachToken(&resp, utils.AdminSubject, utils.RoleAdmin); err != nil {
			return fail(c, h.Log, op, InternalError, "Login failed", err)
		}
		return c.JSON(http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, h.Log, op, NotFoundError, "Account not found", nil)
	}
	if err != nil {
		return fail(c, h.Log, op, InternalError, "Login failed", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, h.Log, op, AuthError, "Incorrect password", nil)
	}

	pub := u.Public()
	resp := authResp{Message: "Login successful", User: &pub}
	if err := h.attachToken(&resp, u.ID, utils.RoleUser); err != nil {
		return fail(c, h.Log, op, InternalError, "Login failed", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// isAdmin compares against the configured pair in constant time.  An
// unset pair never matches.
func (h *AuthHandler) isAdmin(email, password string) bool {
	if h.Cfg.AdminEmail == "" || h.Cfg.AdminPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(h.Cfg.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.Cfg.AdminPassword)) == 1
	return emailOK && passOK
}

func (h *AuthHandler) attachToken(resp *authResp, subject, role string) error {
	if !h.Cfg.TokensEnabled() {
		return nil
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, subject, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	resp.Token = tok.Token
	resp.Expires = &tok.Exp
	return nil
}
