package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-HallBooking/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Hall      string       `json:"hall"`
	HallName  string       `json:"hallName"`
	Date      string       `json:"date"`
	OpenTime  string       `json:"openTime"`
	CloseTime string       `json:"closeTime"`
	Windows   []FreeWindow `json:"windows"`
}

// FreeWindow свободный промежуток в расписании зала
type FreeWindow struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	windows := make([]FreeWindow, len(resp.Windows))
	for i, w := range resp.Windows {
		windows[i] = FreeWindow{
			StartTime:       w.StartTime.String(),
			EndTime:         w.EndTime.String(),
			DurationMinutes: w.DurationMinutes,
		}
	}

	return &AvailabilityResponse{
		Hall:      resp.Hall,
		HallName:  resp.HallName,
		Date:      resp.Date.Format(domain.DateFormat),
		OpenTime:  resp.OpenTime.String(),
		CloseTime: resp.CloseTime.String(),
		Windows:   windows,
	}
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(hall, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	// Длительность опциональна: 0 - показать все окна
	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		Hall:            hall,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
