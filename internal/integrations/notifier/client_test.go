package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/ptr"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:             42,
		Hall:           domain.HallConventionCenter,
		BookingDate:    time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		StartTime:      types.TimeString("10:00"),
		EndTime:        types.TimeString("12:00"),
		Status:         domain.StatusPending,
		RequesterName:  "Asha Rao",
		Department:     "Physics",
		RequesterEmail: ptr.Ptr("asha@example.edu"),
		Purpose:        "Colloquium",
	}
}

func TestClient_NotifyBookingCreated(t *testing.T) {
	var received BookingEvent
	var idempotencyKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, eventsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		idempotencyKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, logger.NewNop())
	err := client.NotifyBookingCreated(context.Background(), testBooking())
	require.NoError(t, err)

	assert.Equal(t, EventBookingCreated, received.Type)
	assert.Equal(t, int64(42), received.BookingID)
	assert.Equal(t, "convention-center", received.Hall)
	assert.Equal(t, "Convention Center", received.HallName)
	assert.Equal(t, "2026-05-12", received.BookingDate)
	assert.Equal(t, "10:00", received.StartTime)
	assert.Equal(t, "12:00", received.EndTime)
	require.NotNil(t, received.RequesterEmail)
	assert.Equal(t, "asha@example.edu", *received.RequesterEmail)

	_, err = uuid.Parse(received.EventID)
	assert.NoError(t, err)
	assert.Equal(t, received.EventID, idempotencyKey)
}

func TestClient_NotifyStatusChanged(t *testing.T) {
	var received BookingEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	booking := testBooking()
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = ptr.Ptr("maintenance")

	client := NewClient(srv.URL, time.Second, logger.NewNop())
	require.NoError(t, client.NotifyStatusChanged(context.Background(), booking))

	assert.Equal(t, EventBookingStatusChanged, received.Type)
	assert.Equal(t, "cancelled", received.Status)
	require.NotNil(t, received.CancellationReason)
	assert.Equal(t, "maintenance", *received.CancellationReason)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rejected with message", status: http.StatusBadRequest, body: `{"code":400,"message":"no recipient"}`, wantErr: ErrRejected},
		{name: "rejected without body", status: http.StatusUnprocessableEntity, wantErr: ErrRejected},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.NewNop())
			err := client.NotifyBookingCreated(context.Background(), testBooking())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond, logger.NewNop())
	err := client.NotifyBookingCreated(context.Background(), testBooking())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestNop(t *testing.T) {
	var n Nop
	assert.NoError(t, n.NotifyBookingCreated(context.Background(), testBooking()))
	assert.NoError(t, n.NotifyStatusChanged(context.Background(), testBooking()))
}
