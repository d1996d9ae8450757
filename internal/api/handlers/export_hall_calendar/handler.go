package export_hall_calendar

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HallBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings"
)

const (
	msgInvalidParams = "некорректный период, ожидается startDate и endDate в формате YYYY-MM-DD"
	msgInvalidPeriod = "период выгрузки должен быть не длиннее 31 дня"
	msgHallNotFound  = "зал не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/halls/{hallId}/calendar.ics
// Query params: startDate (required), endDate (опционально, по умолчанию = startDate)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hall := domain.HallID(mux.Vars(r)["hallId"])
	if !hall.IsValid() {
		handlers.RespondNotFound(w, msgHallNotFound)
		return
	}

	req, err := ToServiceRequest(string(hall), r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /halls/{id}/calendar.ics - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetHallCalendar(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)
		default:
			h.logger.Error("GET /halls/{id}/calendar.ics - Failed to load bookings: hall=%s, error=%v", hall, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	body, skipped := buildCalendar(hall, result.Bookings, h.now().UTC())
	if len(skipped) > 0 {
		h.logger.Warn("GET /halls/{id}/calendar.ics - Skipped bookings with invalid time: %v", skipped)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(hall)+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
