package export_hall_calendar

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
)

var errMissingStartDate = errors.New("startDate is required")

// ToServiceRequest формирует запрос к сервису.
// endDate необязателен и по умолчанию равен startDate.
func ToServiceRequest(hall string, query url.Values) (*models.GetHallCalendarRequest, error) {
	rawStart := query.Get("startDate")
	if rawStart == "" {
		return nil, errMissingStartDate
	}

	start, err := time.Parse(domain.DateFormat, rawStart)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}

	end := start
	if rawEnd := query.Get("endDate"); rawEnd != "" {
		if end, err = time.Parse(domain.DateFormat, rawEnd); err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
	}

	return &models.GetHallCalendarRequest{
		Hall:      hall,
		StartDate: start,
		EndDate:   end,
	}, nil
}
