package notifier

import "time"

// Типы событий
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent событие, отправляемое в сервис уведомлений
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	BookingID      int64   `json:"booking_id"`
	Hall           string  `json:"hall"`
	HallName       string  `json:"hall_name"`
	BookingDate    string  `json:"booking_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Status         string  `json:"status"`
	RequesterName  string  `json:"requester_name"`
	Department     string  `json:"department"`
	RequesterEmail *string `json:"requester_email,omitempty"`
	Purpose        string  `json:"purpose"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
