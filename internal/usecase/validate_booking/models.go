package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// Request модель запроса на предварительную проверку
type Request struct {
	Hall          string
	Date          time.Time
	StartTime     string
	EndTime       string
	RequesterName string
	Department    string
	Purpose       string
}

// Conflict пересекающееся бронирование
type Conflict struct {
	BookingID int64
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    string
}

// Response результат проверки. Пустой Reasons означает, что заявку можно подавать.
type Response struct {
	Admitted  bool
	Reasons   map[string]string
	Conflicts []Conflict
}
