package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
)

// UseCase use case для получения свободных окон зала на день
type UseCase struct {
	bookingRepo  BookingRepository
	policy       scheduling.Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		policy:       scheduling.DefaultPolicy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: hall=%s, date=%s, duration=%d",
		req.Hall, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	hall := domain.HallID(req.Hall)

	// 2. Получаем бронирования зала на дату
	bookings, err := uc.bookingRepo.GetByHallAndDate(ctx, hall, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busy, skipped := busyIntervals(bookings)
	if len(skipped) > 0 {
		// Без этих строк окна могут оказаться ложно свободными
		uc.logger.Error("GetAvailableSlots: unparseable time in stored bookings %v", skipped)
		return nil, fmt.Errorf("%w: stored bookings %v have invalid time", ErrInternal, skipped)
	}

	// 3. Вычисляем свободные окна
	notBefore := minutesNotBefore(req.Date, uc.timeProvider.Now())
	free := freeWindows(uc.policy, busy, notBefore, uc.policy.MinDuration)

	windows := make([]Window, 0, len(free))
	for _, w := range free {
		if req.DurationMinutes > 0 && !w.Fits(req.DurationMinutes) {
			continue
		}
		windows = append(windows, Window{
			StartTime:       w.StartTime,
			EndTime:         w.EndTime,
			DurationMinutes: w.DurationMinutes,
		})
	}

	uc.logger.Info("GetAvailableSlots: %d free windows for hall=%s, date=%s",
		len(windows), hall, req.Date.Format(domain.DateFormat))

	return &Response{
		Hall:      string(hall),
		HallName:  hall.DisplayName(),
		Date:      req.Date,
		OpenTime:  clock(uc.policy.Open),
		CloseTime: clock(uc.policy.Close),
		Windows:   windows,
	}, nil
}
