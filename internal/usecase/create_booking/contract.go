package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockHallDate(ctx context.Context, hall domain.HallID, date time.Time) error
	GetByHallAndDate(ctx context.Context, hall domain.HallID, date time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Notifier интерфейс клиента сервиса уведомлений
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error
}

// MetricsRecorder интерфейс для учета решений валидатора
type MetricsRecorder interface {
	RecordVerdict(hall string, admitted bool, rules []string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
