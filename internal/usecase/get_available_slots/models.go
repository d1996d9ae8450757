package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// Request модель запроса на получение свободных окон зала
type Request struct {
	Hall            string    // Идентификатор зала
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Желаемая длительность; 0 - показать все окна
}

// Response модель ответа со свободными окнами
type Response struct {
	Hall      string
	HallName  string
	Date      time.Time
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Windows   []Window
}

// Window свободный промежуток, в который можно подать заявку
type Window struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
