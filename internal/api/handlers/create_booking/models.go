package create_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-HallBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Hall           string  `json:"hall"`        // "convention-center"
	BookingDate    string  `json:"bookingDate"` // "2026-05-12"
	StartTime      string  `json:"startTime"`   // "10:00"
	EndTime        string  `json:"endTime"`     // "11:30"
	RequesterName  string  `json:"requesterName"`
	Department     string  `json:"department"`
	RequesterEmail *string `json:"requesterEmail,omitempty"`
	Purpose        string  `json:"purpose"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	Hall           string  `json:"hall"`
	HallName       string  `json:"hallName"`
	BookingDate    string  `json:"bookingDate"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	RequesterName  string  `json:"requesterName"`
	Department     string  `json:"department"`
	RequesterEmail *string `json:"requesterEmail,omitempty"`
	Purpose        string  `json:"purpose"`
	CreatedBy      int64   `json:"createdBy"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Время передаётся строками: его формат проверяет валидатор бронирований.
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:         userID,
		Hall:           r.Hall,
		Date:           bookingDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		RequesterName:  r.RequesterName,
		Department:     r.Department,
		RequesterEmail: r.RequesterEmail,
		Purpose:        r.Purpose,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		Hall:           resp.Hall,
		HallName:       resp.HallName,
		BookingDate:    resp.BookingDate.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		Status:         resp.Status,
		RequesterName:  resp.RequesterName,
		Department:     resp.Department,
		RequesterEmail: resp.RequesterEmail,
		Purpose:        resp.Purpose,
		CreatedBy:      resp.CreatedBy,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
