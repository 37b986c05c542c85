package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// seed adds a user with bookings dated one minute apart, oldest first.
func seed(t *testing.T, store *memStore, email string, n int) *model.User {
	t.Helper()
	ctx := context.Background()
	u := &model.User{Name: "Alice", Email: email, Phone: "999"}
	require.NoError(t, store.Create(ctx, u))
	u = store.users[len(store.users)-1]
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		b := &model.Booking{
			User:        model.UserRef{ID: u.ID},
			PaymentID:   "pay",
			Amount:      499,
			Duration:    30,
			Status:      model.StatusPending,
			BookingDate: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, bookingStore{store}.Create(ctx, b))
		require.NoError(t, store.AppendBooking(ctx, u.ID, b.ID))
	}
	return u
}

type bookingsBody struct {
	Bookings []struct {
		ID          string          `json:"_id"`
		User        json.RawMessage `json:"user"`
		Status      string          `json:"status"`
		BookingDate time.Time       `json:"bookingDate"`
	} `json:"bookings"`
}

func TestListBookingsNewestFirstWithUser(t *testing.T) {
	store := newMemStore()
	u := seed(t, store, "a@x.com", 3)
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())

	rec := doJSON(t, h.ListBookings, http.MethodGet, "/api/admin/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body bookingsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 3)
	for i := 1; i < len(body.Bookings); i++ {
		assert.True(t, body.Bookings[i-1].BookingDate.After(body.Bookings[i].BookingDate))
	}
	var user model.UserSummary
	require.NoError(t, json.Unmarshal(body.Bookings[0].User, &user))
	assert.Equal(t, model.UserSummary{ID: u.ID, Name: "Alice", Email: "a@x.com", Phone: "999"}, user)
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	store := newMemStore()
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())
	rec := doJSON(t, h.ListBookings, http.MethodGet, "/api/admin/bookings", "")
	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

func TestListUsersExpandsBookings(t *testing.T) {
	store := newMemStore()
	u := seed(t, store, "a@x.com", 2)
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())

	rec := doJSON(t, h.ListUsers, http.MethodGet, "/api/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var body struct {
		Users []struct {
			ID       string `json:"_id"`
			Bookings []struct {
				ID string `json:"_id"`
			} `json:"bookings"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, u.ID, body.Users[0].ID)
	require.Len(t, body.Users[0].Bookings, 2)
	assert.Equal(t, u.Bookings[0], body.Users[0].Bookings[0].ID)
	assert.Equal(t, u.Bookings[1], body.Users[0].Bookings[1].ID)
}

func TestListFailures(t *testing.T) {
	store := newMemStore()
	store.failList = errBoom
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())

	rec := doJSON(t, h.ListUsers, http.MethodGet, "/api/admin/users", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch users"}`, rec.Body.String())

	rec = doJSON(t, h.ListBookings, http.MethodGet, "/api/admin/bookings", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch bookings"}`, rec.Body.String())
}

func TestUpdateBookingStatus(t *testing.T) {
	store := newMemStore()
	u := seed(t, store, "a@x.com", 1)
	id := u.Bookings[0]
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())

	rec := doJSON(t, h.UpdateBookingStatus, http.MethodPut, "/", `{"status":"completed"}`, "bookingId", id)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec.Body.Bytes())
	assert.Equal(t, "Booking status updated", body["message"])
	assert.Equal(t, "completed", body["booking"].(map[string]any)["status"])

	// stored verbatim when not strict
	rec = doJSON(t, h.UpdateBookingStatus, http.MethodPut, "/", `{"status":"shipped"}`, "bookingId", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", store.bookings[0].Status)
}

func TestUpdateBookingStatusUnknownID(t *testing.T) {
	store := newMemStore()
	h := NewAdminHandler(store, bookingStore{store}, false, zap.NewNop())

	for _, id := range []string{"b999", "bad-id"} {
		rec := doJSON(t, h.UpdateBookingStatus, http.MethodPut, "/", `{"status":"completed"}`, "bookingId", id)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Booking status updated","booking":null}`, rec.Body.String())
	}
}

func TestUpdateBookingStatusStrict(t *testing.T) {
	store := newMemStore()
	u := seed(t, store, "a@x.com", 1)
	h := NewAdminHandler(store, bookingStore{store}, true, zap.NewNop())

	rec := doJSON(t, h.UpdateBookingStatus, http.MethodPut, "/", `{"status":"shipped"}`, "bookingId", u.Bookings[0])
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.StatusPending, store.bookings[0].Status)

	rec = doJSON(t, h.UpdateBookingStatus, http.MethodPut, "/", `{"status":"cancelled"}`, "bookingId", u.Bookings[0])
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserBookings(t *testing.T) {
	store := newMemStore()
	u := seed(t, store, "a@x.com", 2)
	seed(t, store, "b@x.com", 1)
	h := NewUserBookingsHandler(bookingStore{store}, zap.NewNop())

	rec := doJSON(t, h.List, http.MethodGet, "/", "", "userId", u.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var body bookingsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 2)
	assert.Equal(t, `"`+u.ID+`"`, string(body.Bookings[0].User))
	assert.True(t, body.Bookings[0].BookingDate.After(body.Bookings[1].BookingDate))

	rec = doJSON(t, h.List, http.MethodGet, "/", "", "userId", "bad-id")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}
