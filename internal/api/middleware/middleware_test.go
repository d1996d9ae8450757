package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantStaff  bool
	}{
		{name: "requester by default", userID: "7", wantStatus: http.StatusOK},
		{name: "staff", userID: "7", role: "Staff", wantStatus: http.StatusOK, wantStaff: true},
		{name: "admin counts as staff", userID: "7", role: "admin", wantStatus: http.StatusOK, wantStaff: true},
		{name: "missing id", wantStatus: http.StatusUnauthorized},
		{name: "non numeric id", userID: "abc", wantStatus: http.StatusUnauthorized},
		{name: "negative id", userID: "-1", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "7", role: "janitor", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotID    int64
				gotStaff bool
			)
			h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserID(r.Context())
				gotStaff = IsStaff(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int64(7), gotID)
				assert.Equal(t, tt.wantStaff, gotStaff)
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(r.Context())
	assert.False(t, ok)
	assert.Equal(t, RoleRequester, GetUserRole(r.Context()))
	assert.False(t, IsStaff(r.Context()))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, strings.Repeat("x", requestIDMaxLen+1))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2, time.Minute, logger.NewNop())
	now := time.Date(2026, 5, 11, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Middleware(http.HandlerFunc(okHandler))

	do := func(userID string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		r.Header.Set(HeaderUserID, userID)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("1"))
	assert.Equal(t, http.StatusOK, do("1"))
	assert.Equal(t, http.StatusTooManyRequests, do("1"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, do("2"))

	// через секунду восстанавливается один токен
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do("1"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, 1, time.Minute, logger.NewNop())
	now := time.Date(2026, 5, 11, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("ip:10.0.0.1"))
	now = now.Add(2 * time.Minute)
	require.True(t, rl.allow("ip:10.0.0.2"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "ip:10.0.0.2")
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "ip:192.0.2.10", clientKey(r))

	r.Header.Set(HeaderUserID, "42")
	assert.Equal(t, "user:42", clientKey(r))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2"} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), r)
	}

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/bookings/{bookingId}", "404"))
	assert.Equal(t, float64(2), count)
}
