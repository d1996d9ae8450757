package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidHall возвращается при неизвестном зале
	ErrInvalidHall = errors.New("invalid hall")

	// ErrInvalidPeriod возвращается, если начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"-"`
	IsStaff            bool   `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID             int64   `json:"-"`
	IsStaff            bool    `json:"-"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"` // Учитывается только при переходе в cancelled
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetHallScheduleRequest запрос расписания зала на дату
type GetHallScheduleRequest struct {
	Hall            string    `json:"hall"`
	Date            time.Time `json:"date"`
	IncludeInactive bool      `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetHallScheduleRequest) ToDomainFilter() (domain.HallBookingsFilter, error) {
	hall := domain.HallID(r.Hall)
	if !hall.IsValid() {
		return domain.HallBookingsFilter{}, ErrInvalidHall
	}
	date := r.Date
	return domain.HallBookingsFilter{
		Hall:            &hall,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: r.IncludeInactive,
	}, nil
}

// MaxCalendarDays максимальная длина периода выгрузки календаря зала
const MaxCalendarDays = 31

// GetHallCalendarRequest запрос выгрузки активных бронирований зала за период
type GetHallCalendarRequest struct {
	Hall      string    `json:"hall"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// ToDomainFilter конвертирует request в domain фильтр.
// Период включает обе границы и не длиннее MaxCalendarDays дней.
func (r *GetHallCalendarRequest) ToDomainFilter() (domain.HallBookingsFilter, error) {
	hall := domain.HallID(r.Hall)
	if !hall.IsValid() {
		return domain.HallBookingsFilter{}, ErrInvalidHall
	}
	if r.EndDate.Before(r.StartDate) || r.EndDate.Sub(r.StartDate) >= MaxCalendarDays*24*time.Hour {
		return domain.HallBookingsFilter{}, ErrInvalidPeriod
	}
	start, end := r.StartDate, r.EndDate
	return domain.HallBookingsFilter{
		Hall:      &hall,
		StartDate: &start,
		EndDate:   &end,
	}, nil
}

// ListBookingsRequest запрос на получение бронирований всех залов (для сотрудников)
type ListBookingsRequest struct {
	UserID          int64      `json:"userId"`
	IsStaff         bool       `json:"-"`
	Hall            *string    `json:"hall,omitempty"`            // Фильтр по залу (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.HallBookingsFilter, error) {
	filter := domain.HallBookingsFilter{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Hall != nil {
		hall := domain.HallID(*r.Hall)
		if !hall.IsValid() {
			return filter, ErrInvalidHall
		}
		filter.Hall = &hall
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// Явный запрос отменённых включает неактивные
		if !status.IsActive() {
			filter.IncludeInactive = true
		}
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	Hall        string `json:"hall"`
	HallName    string `json:"hallName"`
	BookingDate string `json:"bookingDate"` // "2026-05-12"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:30"
	Status      string `json:"status"`

	RequesterName  string  `json:"requesterName"`
	Department     string  `json:"department"`
	RequesterEmail *string `json:"requesterEmail,omitempty"`
	Purpose        string  `json:"purpose"`
	CreatedBy      int64   `json:"createdBy"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Hall:               string(b.Hall),
		HallName:           b.Hall.DisplayName(),
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		RequesterName:      b.RequesterName,
		Department:         b.Department,
		RequesterEmail:     b.RequesterEmail,
		Purpose:            b.Purpose,
		CreatedBy:          b.CreatedBy,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
