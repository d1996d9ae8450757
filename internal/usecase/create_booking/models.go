package create_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID         int64     // ID пользователя, создающего заявку
	Hall           string    // Идентификатор зала
	Date           time.Time // Дата бронирования (без времени)
	StartTime      string    // Время начала "HH:MM"
	EndTime        string    // Время окончания "HH:MM"
	RequesterName  string    // Имя заявителя
	Department     string    // Кафедра / подразделение
	RequesterEmail *string   // Email для уведомлений (опционально)
	Purpose        string    // Цель мероприятия
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	Hall           string
	HallName       string
	BookingDate    time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         string
	RequesterName  string
	Department     string
	RequesterEmail *string
	Purpose        string
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
