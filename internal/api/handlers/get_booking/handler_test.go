package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HallBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
)

type mockService struct {
	gotStaff bool
	err      error
}

func (m *mockService) GetByID(_ context.Context, id int64, _ int64, isStaff bool) (*models.BookingResponse, error) {
	m.gotStaff = isStaff
	if m.err != nil {
		return nil, m.err
	}
	return &models.BookingResponse{ID: id}, nil
}

func serve(svc *mockService, target, role string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, logger.NewNop()).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set(middleware.HeaderUserID, "10")
	if role != "" {
		r.Header.Set(middleware.HeaderUserRole, role)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	assert.Equal(t, http.StatusOK, serve(svc, "/api/v1/bookings/1", "staff").Code)
	assert.True(t, svc.gotStaff)

	assert.Equal(t, http.StatusBadRequest, serve(&mockService{}, "/api/v1/bookings/one", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(&mockService{err: bookings.ErrBookingNotFound}, "/api/v1/bookings/1", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(&mockService{err: bookings.ErrAccessDenied}, "/api/v1/bookings/1", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&mockService{err: bookings.ErrInternal}, "/api/v1/bookings/1", "").Code)
}
