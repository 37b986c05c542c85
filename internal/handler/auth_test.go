package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/config"
	"github.com/iliyamo/friendly-voice-api/internal/utils"
)

const aliceSignup = `{"name":"Alice","email":"a@x.com","password":"p1","phone":"999"}`

func newAuth(store *memStore, secret string) *AuthHandler {
	cfg := config.Config{
		BcryptCost:    config.MinBcryptCost,
		AdminEmail:    "admin@friendlyvoice.test",
		AdminPassword: "letmein",
		JWTSecret:     secret,
		AccessTTLMin:  5,
	}
	return NewAuthHandler(cfg, store, zap.NewNop())
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestSignupStoresHashAndHidesPassword(t *testing.T) {
	store := newMemStore()
	h := newAuth(store, "")

	rec := doJSON(t, h.Signup, http.MethodPost, "/api/signup", aliceSignup)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	body := decode(t, rec.Body.Bytes())
	assert.Equal(t, "Account created successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "999", user["phone"])
	assert.NotEmpty(t, user["id"])

	require.Len(t, store.users, 1)
	stored := store.users[0]
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "p1"))
	assert.False(t, stored.RegisteredAt.IsZero())
}

func TestSignupRejectsMissingFields(t *testing.T) {
	h := newAuth(newMemStore(), "")
	rec := doJSON(t, h.Signup, http.MethodPost, "/api/signup", `{"name":"Alice","email":"a@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"All fields are required"}`, rec.Body.String())
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newMemStore()
	h := newAuth(store, "")
	require.Equal(t, http.StatusCreated, doJSON(t, h.Signup, http.MethodPost, "/api/signup", aliceSignup).Code)

	rec := doJSON(t, h.Signup, http.MethodPost, "/api/signup", aliceSignup)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
	assert.Len(t, store.users, 1)
}

func TestLoginAdminSkipsStore(t *testing.T) {
	store := newMemStore()
	h := newAuth(store, "")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/login", `{"email":"admin@friendlyvoice.test","password":"letmein"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isAdmin":true,"message":"Admin login successful"}`, rec.Body.String())
	assert.Zero(t, store.reads)
}

func TestLoginAdminDisabledWhenUnset(t *testing.T) {
	store := newMemStore()
	h := NewAuthHandler(config.Config{BcryptCost: config.MinBcryptCost}, store, zap.NewNop())

	rec := doJSON(t, h.Login, http.MethodPost, "/api/login", `{"email":"x","password":"y"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, store.reads)
}

func TestLoginOutcomes(t *testing.T) {
	store := newMemStore()
	h := newAuth(store, "")
	require.Equal(t, http.StatusCreated, doJSON(t, h.Signup, http.MethodPost, "/api/signup", aliceSignup).Code)

	cases := []struct {
		name string
		body string
		code int
		want string
	}{
		{"unknown email", `{"email":"nobody@x.com","password":"p1"}`, http.StatusNotFound, `{"error":"Account not found"}`},
		{"wrong password", `{"email":"a@x.com","password":"nope"}`, http.StatusUnauthorized, `{"error":"Incorrect password"}`},
		{"missing password", `{"email":"a@x.com"}`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Login, http.MethodPost, "/api/login", tc.body)
			assert.Equal(t, tc.code, rec.Code)
			if tc.want != "" {
				assert.JSONEq(t, tc.want, rec.Body.String())
			}
		})
	}

	rec := doJSON(t, h.Login, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec.Body.Bytes())
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, store.users[0].ID, body["user"].(map[string]any)["id"])
	assert.NotContains(t, body, "token")
}

func TestLoginIssuesTokenWhenEnabled(t *testing.T) {
	store := newMemStore()
	h := newAuth(store, "jwt-secret")
	require.Equal(t, http.StatusCreated, doJSON(t, h.Signup, http.MethodPost, "/api/signup", aliceSignup).Code)

	rec := doJSON(t, h.Login, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	raw, _ := decode(t, rec.Body.Bytes())["token"].(string)
	claims, err := utils.ParseAccessToken("jwt-secret", raw)
	require.NoError(t, err)
	assert.Equal(t, store.users[0].ID, claims.Subject)
	assert.Equal(t, utils.RoleUser, claims.Role)

	rec = doJSON(t, h.Login, http.MethodPost, "/api/login", `{"email":"admin@friendlyvoice.test","password":"letmein"}`)
	raw, _ = decode(t, rec.Body.Bytes())["token"].(string)
	claims, err = utils.ParseAccessToken("jwt-secret", raw)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, claims.Role)
}
