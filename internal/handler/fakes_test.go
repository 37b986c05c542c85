package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/friendly-voice-api/internal/mail"
	"github.com/iliyamo/friendly-voice-api/internal/model"
	"github.com/iliyamo/friendly-voice-api/internal/payment"
	"github.com/iliyamo/friendly-voice-api/internal/queue"
	"github.com/iliyamo/friendly-voice-api/internal/repository"
)

// memStore implements both stores in memory.  Ids prefixed "bad" are
// treated as malformed.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    []*model.User
	bookings []*model.Booking
	reads    int
	failList error
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *memStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = s.nextID("u")
	cp := *u
	s.users = append(s.users, &cp)
	return nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	for _, x := range s.users {
		if x.Email == email {
			cp := *x
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) AppendBooking(ctx context.Context, userID, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.ID == userID {
			x.Bookings = append(x.Bookings, bookingID)
		}
	}
	return nil
}

func (s *memStore) ListWithBookings(ctx context.Context) ([]model.UserWithBookings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	var out []model.UserWithBookings
	for _, u := range s.users {
		uw := model.UserWithBookings{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, RegisteredAt: u.RegisteredAt, Bookings: []model.Booking{}}
		for _, id := range u.Bookings {
			if b := s.booking(id); b != nil {
				uw.Bookings = append(uw.Bookings, *b)
			}
		}
		out = append(out, uw)
	}
	return out, nil
}

func (s *memStore) booking(id string) *model.Booking {
	for _, b := range s.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *memStore) user(id string) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// bookingStore adapts memStore to repository.BookingStore; the two
// interfaces share the Create method name.
type bookingStore struct{ *memStore }

func (b bookingStore) Create(ctx context.Context, bk *model.Booking) error {
	s := b.memStore
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.HasPrefix(bk.User.ID, "bad") {
		return repository.ErrInvalidID
	}
	bk.ID = s.nextID("b")
	cp := *bk
	s.bookings = append(s.bookings, &cp)
	return nil
}

func (b bookingStore) newestFirst(keep func(*model.Booking) bool) []model.Booking {
	var out []model.Booking
	for _, bk := range b.bookings {
		if keep(bk) {
			out = append(out, *bk)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out
}

func (b bookingStore) ListAll(ctx context.Context) ([]model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failList != nil {
		return nil, b.failList
	}
	out := b.newestFirst(func(*model.Booking) bool { return true })
	for i := range out {
		ref := model.UserRef{ID: out[i].User.ID, Expanded: true}
		if u := b.user(ref.ID); u != nil {
			ref.Summary = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		out[i].User = ref
	}
	return out, nil
}

func (b bookingStore) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.HasPrefix(userID, "bad") {
		return nil, repository.ErrInvalidID
	}
	return b.newestFirst(func(bk *model.Booking) bool { return bk.User.ID == userID }), nil
}

func (b bookingStore) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.HasPrefix(id, "bad") {
		return nil, repository.ErrInvalidID
	}
	bk := b.booking(id)
	if bk == nil {
		return nil, repository.ErrNotFound
	}
	bk.Status = status
	cp := *bk
	return &cp, nil
}

type fakeOrders struct {
	got payment.OrderRequest
	err error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.Order, error) {
	f.got = req
	if f.err != nil {
		return payment.Order{}, f.err
	}
	return payment.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}, nil
}

type fakeNotifier struct {
	confirmations []mail.BookingDetails
	alerts        []mail.BookingDetails
	confirmErr    error
	alertErr      error
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, d mail.BookingDetails) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmations = append(f.confirmations, d)
	return nil
}

func (f *fakeNotifier) SendAdminAlert(ctx context.Context, d mail.BookingDetails) error {
	if f.alertErr != nil {
		return f.alertErr
	}
	f.alerts = append(f.alerts, d)
	return nil
}

type fakeEvents struct {
	events []queue.BookingCreatedEvent
	err    error
}

func (f *fakeEvents) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

var errBoom = errors.New("boom")

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		require.Zero(t, len(params)%2)
		var names, values []string
		for i := 0; i < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, h(c))
	return rec
}
