package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HallBooking/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день и имеет приоритет над startDate/endDate.
func ToServiceRequest(userID int64, isStaff bool, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		UserID:          userID,
		IsStaff:         isStaff,
		IncludeInactive: false, // По умолчанию только активные
	}

	if hall := query.Get("hall"); hall != "" {
		req.Hall = ptr.Ptr(hall)
	}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		var err error
		if req.StartDate, err = parseOptionalDate(query.Get("startDate")); err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		if req.EndDate, err = parseOptionalDate(query.Get("endDate")); err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
	}

	// Парсим includeInactive если указан
	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
