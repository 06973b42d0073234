package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joy095/salon/clients"
	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/middlewares/auth"
	"github.com/joy095/salon/models/booking_models"
	"github.com/joy095/salon/models/shop_models"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("LOG_DIR", os.TempDir())
	logger.InitLoggers()
	os.Exit(m.Run())
}

// recordingNotifier captures status mail instead of sending it.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string // "to|service|status"
}

func (n *recordingNotifier) SendBookingStatus(to, serviceName, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to+"|"+serviceName+"|"+status)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

// fakeBackend is an in-memory stand-in for the record store. Ownership is
// resolved from the forwarded bearer token.
type fakeBackend struct {
	mu           sync.Mutex
	shops        map[string]shop_models.Shop
	bookings     map[string]*booking_models.Booking
	order        []string
	shopsByToken map[string][]string // token -> owned shop ids
	users        []user_models.Identity
	nextID       int
}

func (f *fakeBackend) seedBooking(b booking_models.Booking) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = fmt.Sprintf("bk-%d", f.nextID)
	f.bookings[b.ID] = &b
	f.order = append(f.order, b.ID)
	return b.ID
}

func (f *fakeBackend) listLocked() []booking_models.Booking {
	out := make([]booking_models.Booking, 0, len(f.order))
	for _, id := range f.order {
		if b, ok := f.bookings[id]; ok {
			out = append(out, *b)
		}
	}
	return out
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 {
		return h[7:]
	}
	return ""
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /shop/getMyShops", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		shops := []shop_models.Shop{}
		for _, id := range f.shopsByToken[bearer(r)] {
			shops = append(shops, f.shops[id])
		}
		json.NewEncoder(w).Encode(shops)
	})
	mux.HandleFunc("GET /shop/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		shop, ok := f.shops[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(shop)
	})

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.users)
	})

	mux.HandleFunc("POST /booking", func(w http.ResponseWriter, r *http.Request) {
		var payload clients.CreateBookingPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"error":"bad payload"}`, http.StatusBadRequest)
			return
		}
		id := f.seedBooking(booking_models.Booking{
			ShopID:     payload.ShopID,
			Service:    payload.Service,
			CustomerID: payload.CustomerID,
			Date:       payload.Date,
			Time:       payload.Time,
			Status:     booking_models.StatusPending,
		})
		f.mu.Lock()
		b := *f.bookings[id]
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(b)
	})
	mux.HandleFunc("GET /booking", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.listLocked())
	})
	mux.HandleFunc("GET /booking/customer/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []booking_models.Booking{}
		for _, b := range f.listLocked() {
			if b.CustomerID == r.PathValue("id") {
				out = append(out, b)
			}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /booking/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		b, ok := f.bookings[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(b)
	})
	mux.HandleFunc("PUT /booking/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Status *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, `{"error":"bad payload"}`, http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		b, ok := f.bookings[r.PathValue("id")]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		if patch.Status != nil {
			b.Status = booking_models.Status(*patch.Status)
		}
		json.NewEncoder(w).Encode(b)
	})
	mux.HandleFunc("DELETE /booking/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.bookings[r.PathValue("id")]; !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		delete(f.bookings, r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"message":"deleted"}`)
	})

	return mux
}

type fixture struct {
	router   *gin.Engine
	backend  *fakeBackend
	notifier *recordingNotifier
}

// Tokens used across the fixture. Each maps to a distinct identity.
const (
	custToken   = "cust-token"
	cust2Token  = "cust2-token"
	ownerToken  = "owner-token"
	owner2Token = "owner2-token"
	adminToken  = "admin-token"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := &fakeBackend{
		shops: map[string]shop_models.Shop{
			"shop-1": {ID: "shop-1", Name: "Mane Attraction", OwnerID: "owner-1",
				Services: []shop_models.Service{{ServiceName: "Box Braids", Price: 1500}}},
			"shop-2": {ID: "shop-2", Name: "Clip Joint", OwnerID: "owner-2",
				Services: []shop_models.Service{{ServiceName: "Fade", Price: 600}}},
		},
		bookings: map[string]*booking_models.Booking{},
		shopsByToken: map[string][]string{
			ownerToken:  {"shop-1"},
			owner2Token: {"shop-2"},
		},
		users: []user_models.Identity{
			{ID: "cust-1", Name: "Amina", Email: "amina@example.com", Role: user_models.RoleCustomer},
			{ID: "owner-1", Name: "Grace", Email: "grace@example.com", Role: user_models.RoleOwner},
		},
	}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	sessions := session.NewMemoryStore()
	ctx := context.Background()
	for token, identity := range map[string]user_models.Identity{
		custToken:   {ID: "cust-1", Role: user_models.RoleCustomer},
		cust2Token:  {ID: "cust-2", Role: user_models.RoleCustomer},
		ownerToken:  {ID: "owner-1", Role: user_models.RoleOwner},
		owner2Token: {ID: "owner-2", Role: user_models.RoleOwner},
		adminToken:  {ID: "admin-1", Role: user_models.RoleAdmin},
	} {
		require.NoError(t, sessions.Login(ctx, identity, token))
	}

	notifier := &recordingNotifier{}
	bc := NewBookingController(&clients.BackendClient{BaseURL: srv.URL, HttpClient: srv.Client()}, nil)
	bc.Mailer = notifier

	anyRole := auth.RequireRoles(sessions,
		user_models.RoleCustomer, user_models.RoleOwner, user_models.RoleAdmin)
	r := gin.New()
	bookings := r.Group("/booking")
	{
		bookings.POST("", auth.RequireRoles(sessions, user_models.RoleCustomer), bc.Create)
		bookings.GET("", anyRole, bc.List)
		bookings.GET("/:id", anyRole, bc.Get)
		bookings.PATCH("/:id/status", anyRole, bc.SetStatus)
		bookings.DELETE("/:id", anyRole, bc.Remove)
	}

	return &fixture{router: r, backend: backend, notifier: notifier}
}

func (f *fixture) request(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) seed(customerID, shopID string, status booking_models.Status, date string) string {
	return f.backend.seedBooking(booking_models.Booking{
		ShopID:     shopID,
		Service:    booking_models.ServiceSnapshot{ServiceName: "Box Braids", Price: 1500},
		CustomerID: customerID,
		Date:       date,
		Time:       "09:00",
		Status:     status,
	})
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, custToken, http.MethodPost, "/booking", gin.H{
		"shop": "shop-1", "serviceName": "Box Braids", "date": "2026-09-15", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b booking_models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, booking_models.StatusPending, b.Status)
	assert.Equal(t, "cust-1", b.CustomerID)
	assert.Equal(t, 1500.0, b.Service.Price)
}

func TestCreateBookingUnknownService(t *testing.T) {
	f := newFixture(t)
	w := f.request(t, custToken, http.MethodPost, "/booking", gin.H{
		"shop": "shop-1", "serviceName": "Perm", "date": "2026-09-15", "time": "10:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	w := f.request(t, ownerToken, http.MethodPost, "/booking", gin.H{
		"shop": "shop-1", "serviceName": "Box Braids", "date": "2026-09-15", "time": "10:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetStatusSkippingConfirmRejected(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")

	w := f.request(t, ownerToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		From        booking_models.Status   `json:"from"`
		To          booking_models.Status   `json:"to"`
		Transitions []booking_models.Status `json:"transitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, booking_models.StatusPending, body.From)
	assert.Equal(t, booking_models.StatusCompleted, body.To)
	assert.ElementsMatch(t,
		[]booking_models.Status{booking_models.StatusConfirmed, booking_models.StatusCancelled},
		body.Transitions)
}

func TestSetStatusFullLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")

	for _, next := range []string{"confirmed", "completed"} {
		w := f.request(t, ownerToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": next})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var b booking_models.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, booking_models.Status(next), b.Status)
	}

	// Completed is terminal.
	w := f.request(t, ownerToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSetStatusNotifiesCustomer(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")

	w := f.request(t, ownerToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The mail goes to the booking's customer, not to the owner who confirmed.
	require.Eventually(t, func() bool {
		return len(f.notifier.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"amina@example.com|Box Braids|confirmed"}, f.notifier.all())
}

func TestCustomerMayOnlyCancel(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")

	w := f.request(t, custToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, custToken, http.MethodPatch, "/booking/"+id+"/status", gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	var b booking_models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, booking_models.StatusCancelled, b.Status)
}

func TestRecordLevelAccess(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")

	// Another customer cannot read it.
	w := f.request(t, cust2Token, http.MethodGet, "/booking/"+id, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner of a different shop cannot either.
	w = f.request(t, owner2Token, http.MethodGet, "/booking/"+id, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Its shop's owner and the admin can.
	for _, token := range []string{ownerToken, adminToken} {
		w = f.request(t, token, http.MethodGet, "/booking/"+id, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetOffersTransitions(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusConfirmed, "2026-09-15")

	w := f.request(t, custToken, http.MethodGet, "/booking/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Transitions []booking_models.Status `json:"transitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t,
		[]booking_models.Status{booking_models.StatusCompleted, booking_models.StatusCancelled},
		body.Transitions)
}

func listBookings(t *testing.T, f *fixture, token, query string) []booking_models.Booking {
	t.Helper()
	w := f.request(t, token, http.MethodGet, "/booking"+query, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Bookings []booking_models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Bookings
}

func TestListScopedByRole(t *testing.T) {
	f := newFixture(t)
	f.seed("cust-1", "shop-1", booking_models.StatusPending, "2026-09-15")
	f.seed("cust-2", "shop-1", booking_models.StatusConfirmed, "2026-09-16")
	f.seed("cust-2", "shop-2", booking_models.StatusPending, "2026-09-17")

	assert.Len(t, listBookings(t, f, custToken, ""), 1)
	assert.Len(t, listBookings(t, f, ownerToken, ""), 2)  // shop-1 only
	assert.Len(t, listBookings(t, f, owner2Token, ""), 1) // shop-2 only
	assert.Len(t, listBookings(t, f, adminToken, ""), 3)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	f.seed("cust-2", "shop-1", booking_models.StatusPending, "2026-09-15")
	f.seed("cust-2", "shop-1", booking_models.StatusConfirmed, "2026-09-16")
	f.seed("cust-2", "shop-2", booking_models.StatusCancelled, "2026-09-20")

	assert.Len(t, listBookings(t, f, adminToken, "?status=pending"), 1)
	assert.Len(t, listBookings(t, f, adminToken, "?shop=shop-1"), 2)

	// The range end is inclusive through end-of-day.
	assert.Len(t, listBookings(t, f, adminToken, "?from=2026-09-16&to=2026-09-20"), 2)
	assert.Len(t, listBookings(t, f, adminToken, "?to=2026-09-15"), 1)

	w := f.request(t, adminToken, http.MethodGet, "/booking?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveBooking(t *testing.T) {
	f := newFixture(t)
	id := f.seed("cust-1", "shop-1", booking_models.StatusCompleted, "2026-09-15")

	w := f.request(t, adminToken, http.MethodDelete, "/booking/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, adminToken, http.MethodGet, "/booking/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
