package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	validateBooking "github.com/m04kA/SMC-HallBooking/internal/usecase/validate_booking"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	Hall          string `json:"hall"`
	BookingDate   string `json:"bookingDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	RequesterName string `json:"requesterName"`
	Department    string `json:"department"`
	Purpose       string `json:"purpose"`
}

// ValidationResponse HTTP response model
type ValidationResponse struct {
	Admitted  bool              `json:"admitted"`
	Reasons   map[string]string `json:"reasons"`
	Conflicts []Conflict        `json:"conflicts"`
}

// Conflict пересекающееся бронирование
type Conflict struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &validateBooking.Request{
		Hall:          r.Hall,
		Date:          bookingDate,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		RequesterName: r.RequesterName,
		Department:    r.Department,
		Purpose:       r.Purpose,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateBooking.Response) *ValidationResponse {
	conflicts := make([]Conflict, len(resp.Conflicts))
	for i, c := range resp.Conflicts {
		conflicts[i] = Conflict{
			BookingID: c.BookingID,
			StartTime: c.StartTime.String(),
			EndTime:   c.EndTime.String(),
			Status:    c.Status,
		}
	}

	reasons := resp.Reasons
	if reasons == nil {
		reasons = map[string]string{}
	}

	return &ValidationResponse{
		Admitted:  resp.Admitted,
		Reasons:   reasons,
		Conflicts: conflicts,
	}
}
