package export_hall_calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBooking/internal/service/bookings"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
)

type mockService struct {
	got      *models.GetHallCalendarRequest
	bookings []models.BookingResponse
	err      error
}

func (m *mockService) GetHallCalendar(_ context.Context, req *models.GetHallCalendarRequest) (*models.BookingListResponse, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.BookingListResponse{Bookings: m.bookings}, nil
}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.NewNop())
	h.now = func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/halls/{hallId}/calendar.ics", h.Handle)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func booking(id int64, start, end, status string) models.BookingResponse {
	return models.BookingResponse{
		ID:            id,
		Hall:          "laboratory",
		HallName:      "Laboratory",
		BookingDate:   "2026-05-12",
		StartTime:     start,
		EndTime:       end,
		Status:        status,
		RequesterName: "Asha Rao",
		Department:    "Physics",
		Purpose:       "Lab induction",
	}
}

func TestHandle(t *testing.T) {
	svc := &mockService{bookings: []models.BookingResponse{
		booking(1, "09:00", "10:30", "confirmed"),
		booking(2, "13:00", "14:00", "pending"),
		booking(3, "bad", "14:00", "pending"),
	}}

	w := serve(svc, "/api/v1/halls/laboratory/calendar.ics?startDate=2026-05-01&endDate=2026-05-31")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "laboratory.ics")
	assert.Equal(t, 31, svc.got.EndDate.Day())

	cal, err := ics.ParseCalendar(strings.NewReader(w.Body.String()))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "booking-1@hall-booking.smc", events[0].Id())
	assert.Equal(t, "20260512T090000", events[0].GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20260512T103000", events[0].GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, string(ics.ObjectStatusTentative), events[1].GetProperty(ics.ComponentPropertyStatus).Value)
}

func TestHandle_SingleDayDefault(t *testing.T) {
	svc := &mockService{}
	w := serve(svc, "/api/v1/halls/mba-seminar/calendar.ics?startDate=2026-05-12")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.got.StartDate.Equal(svc.got.EndDate))
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "unknown hall", target: "/api/v1/halls/gym/calendar.ics?startDate=2026-05-12", wantStatus: http.StatusNotFound},
		{name: "missing start", target: "/api/v1/halls/laboratory/calendar.ics", wantStatus: http.StatusBadRequest},
		{name: "bad end", target: "/api/v1/halls/laboratory/calendar.ics?startDate=2026-05-12&endDate=soon", wantStatus: http.StatusBadRequest},
		{name: "period too long", target: "/api/v1/halls/laboratory/calendar.ics?startDate=2026-01-01&endDate=2026-12-31", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/halls/laboratory/calendar.ics?startDate=2026-05-12", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serve(&mockService{err: tt.err}, tt.target).Code)
		})
	}
}
