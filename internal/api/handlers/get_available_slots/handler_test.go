package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-HallBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

type mockUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (m *mockUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	m.got = req
	return m.resp, m.err
}

func serve(uc *mockUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/halls/{hallId}/availability", NewHandler(uc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{resp: &getAvailableSlots.Response{
		Hall:      "laboratory",
		HallName:  "Laboratory",
		Date:      time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		OpenTime:  types.TimeString("09:00"),
		CloseTime: types.TimeString("16:30"),
		Windows: []getAvailableSlots.Window{
			{StartTime: types.TimeString("09:00"), EndTime: types.TimeString("10:00"), DurationMinutes: 60},
		},
	}}

	w := serve(uc, "/api/v1/halls/laboratory/availability?date=2026-05-12&duration=45")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "laboratory", uc.got.Hall)
	assert.Equal(t, 45, uc.got.DurationMinutes)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "09:00", resp.OpenTime)
	assert.Equal(t, "16:30", resp.CloseTime)
	require.Len(t, resp.Windows, 1)
	assert.Equal(t, 60, resp.Windows[0].DurationMinutes)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "missing date", target: "/api/v1/halls/laboratory/availability", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/api/v1/halls/laboratory/availability?date=12-05-2026", wantStatus: http.StatusBadRequest},
		{name: "bad duration", target: "/api/v1/halls/laboratory/availability?date=2026-05-12&duration=long", wantStatus: http.StatusBadRequest},
		{name: "unknown hall", target: "/api/v1/halls/gym/availability?date=2026-05-12", err: getAvailableSlots.ErrHallNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid input", target: "/api/v1/halls/laboratory/availability?date=2026-05-12&duration=900", err: getAvailableSlots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/halls/laboratory/availability?date=2026-05-12", err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&mockUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
