package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HallBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
	createBooking "github.com/m04kA/SMC-HallBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

type mockUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (m *mockUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	m.got = req
	return m.resp, m.err
}

const validBody = `{
	"hall": "convention-center",
	"bookingDate": "2026-05-12",
	"startTime": "10:00",
	"endTime": "11:30",
	"requesterName": "Asha Rao",
	"department": "Physics",
	"purpose": "Colloquium"
}`

func serve(t *testing.T, uc *mockUseCase, body string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, logger.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != "" {
		r.Header.Set(middleware.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(w, r)
	return w
}

func rejectedError(start, end string, snapshot []scheduling.ExistingBooking) error {
	today := time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)
	verdict := scheduling.Validate(scheduling.Request{
		Hall:          domain.HallConventionCenter,
		Date:          time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		StartTime:     start,
		EndTime:       end,
		RequesterName: "Asha Rao",
		Department:    "Physics",
		Purpose:       "Colloquium",
	}, snapshot, today)
	return &createBooking.RejectedError{Verdict: verdict}
}

func mustInterval(start, end string) scheduling.TimeInterval {
	iv, err := scheduling.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandle_Created(t *testing.T) {
	created := time.Date(2026, 5, 11, 9, 30, 0, 0, time.UTC)
	uc := &mockUseCase{resp: &createBooking.Response{
		ID:          5,
		Hall:        "convention-center",
		HallName:    "Convention Center",
		BookingDate: time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:30"),
		Status:      "pending",
		CreatedBy:   7,
		CreatedAt:   created,
		UpdatedAt:   created,
	}}

	w := serve(t, uc, validBody, "7")

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, "10:00", uc.got.StartTime)
	assert.Equal(t, "11:30", uc.got.EndTime)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "2026-05-12", resp.BookingDate)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2026-05-11T09:30:00Z", resp.CreatedAt)
}

func TestHandle_ConflictOnlyIs409(t *testing.T) {
	snapshot := []scheduling.ExistingBooking{{
		ID:       1,
		Interval: mustInterval("11:00", "12:00"),
		Status:   domain.StatusConfirmed,
	}}
	uc := &mockUseCase{err: rejectedError("10:00", "11:30", snapshot)}

	w := serve(t, uc, validBody, "7")

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "overlaps 11:00-12:00 (1 conflicting booking(s))", resp.Reasons["conflict"])
}

func TestHandle_RuleViolationsAre400(t *testing.T) {
	uc := &mockUseCase{err: rejectedError("08:00", "08:15", nil)}

	w := serve(t, uc, validBody, "7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Reasons, "duration")
	assert.Contains(t, resp.Reasons, "business_hours")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     string
		err        error
		wantStatus int
	}{
		{name: "missing user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "malformed body", body: `{"hall":`, userID: "7", wantStatus: http.StatusBadRequest},
		{name: "bad date", body: strings.Replace(validBody, "2026-05-12", "12.05.2026", 1), userID: "7", wantStatus: http.StatusBadRequest},
		{name: "slot taken", body: validBody, userID: "7", err: createBooking.ErrSlotTaken, wantStatus: http.StatusConflict},
		{name: "invalid input", body: validBody, userID: "7", err: errors.Join(createBooking.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, userID: "7", err: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, &mockUseCase{err: tt.err}, tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestInvalidInputMessage(t *testing.T) {
	err := errors.New(createBooking.ErrInvalidInput.Error() + ": startTime and endTime are required")
	assert.Equal(t, "startTime and endTime are required", invalidInputMessage(err))
	assert.Equal(t, msgInvalidRequestBody, invalidInputMessage(errors.New("other")))
}
