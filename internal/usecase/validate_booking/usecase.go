package validate_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
)

// UseCase предварительная проверка заявки без записи.
// Результат носит рекомендательный характер: окончательное решение принимает create_booking.
type UseCase struct {
	bookingRepo  BookingRepository
	validator    *scheduling.Validator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		validator:    scheduling.NewValidator(scheduling.DefaultPolicy),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute проверяет заявку по тем же правилам, что и создание бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	hall := domain.HallID(req.Hall)

	// Для неизвестного зала снимок не нужен: валидатор всё равно отклонит заявку
	var snapshot []scheduling.ExistingBooking
	if hall.IsValid() {
		bookings, err := uc.bookingRepo.GetByHallAndDate(ctx, hall, req.Date)
		if err != nil {
			uc.logger.Error("ValidateBooking: failed to get bookings hall=%s: %v", hall, err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		var skipped []int64
		snapshot, skipped = scheduling.FromDomainBookings(bookings)
		if len(skipped) > 0 {
			uc.logger.Error("ValidateBooking: unparseable time in stored bookings %v", skipped)
			return nil, fmt.Errorf("%w: stored bookings %v have invalid time", ErrInternal, skipped)
		}
	}

	verdict := uc.validator.Validate(scheduling.Request{
		Hall:          hall,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		RequesterName: req.RequesterName,
		Department:    req.Department,
		Purpose:       req.Purpose,
	}, snapshot, uc.timeProvider.Now())

	conflicts := make([]Conflict, 0, len(verdict.Conflicts))
	for _, c := range verdict.Conflicts {
		conflicts = append(conflicts, Conflict{
			BookingID: c.ID,
			StartTime: c.Interval.StartTime(),
			EndTime:   c.Interval.EndTime(),
			Status:    string(c.Status),
		})
	}

	return &Response{
		Admitted:  verdict.Admitted,
		Reasons:   verdict.Reasons(),
		Conflicts: conflicts,
	}, nil
}
