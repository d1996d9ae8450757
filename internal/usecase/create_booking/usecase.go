package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HallBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
	"github.com/m04kA/SMC-HallBooking/pkg/ptr"
	"github.com/m04kA/SMC-HallBooking/pkg/txmanager"
)

// maxAttempts сколько раз повторяем транзакцию после serialization failure
const maxAttempts = 3

// UseCase use case для создания бронирования зала
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      MetricsRecorder
	txManager    TransactionManager
	validator    *scheduling.Validator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// notifier и metrics могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics MetricsRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
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

// Execute выполняет use case создания бронирования.
//
// Чтение снимка, валидация и вставка выполняются в одной сериализуемой транзакции
// под advisory-блокировкой (зал, дата), поэтому два параллельных запроса на
// пересекающиеся интервалы не могут оба пройти проверку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, hall=%s, date=%s, time=%s-%s",
		req.UserID, req.Hall, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация формы запроса
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	hall := domain.HallID(req.Hall)
	schedReq := scheduling.Request{
		Hall:           hall,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RequesterName:  req.RequesterName,
		Department:     req.Department,
		RequesterEmail: ptr.Value(req.RequesterEmail),
		Purpose:        req.Purpose,
	}

	var (
		result  *domain.Booking
		verdict *scheduling.Verdict
		err     error
	)

	// 2. Снимок + валидация + вставка, с повтором при serialization failure
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, verdict, err = uc.tryCreate(ctx, req, schedReq)
		if err == nil || !isSerializationFailure(err) {
			break
		}
		uc.logger.Warn("CreateBooking: serialization failure on attempt %d/%d for hall=%s date=%s",
			attempt, maxAttempts, hall, req.Date.Format(domain.DateFormat))
	}

	// Метрики учитывают только вердикт последней попытки: откаченные повторы не считаются
	if verdict != nil {
		uc.recordVerdict(hall, *verdict)
	}

	if err != nil {
		var rejected *RejectedError
		switch {
		case errors.As(err, &rejected):
			uc.logger.Warn("CreateBooking: rejected hall=%s date=%s: %v",
				hall, req.Date.Format(domain.DateFormat), rejected)
			return nil, err
		case errors.Is(err, bookingRepo.ErrSlotNotAvailable), isSerializationFailure(err):
			uc.logger.Warn("CreateBooking: slot taken concurrently hall=%s date=%s: %v",
				hall, req.Date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
		case errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 3. Уведомление после commit: его ошибка не отменяет бронирование
	if uc.notifier != nil {
		if err := uc.notifier.NotifyBookingCreated(ctx, result); err != nil {
			uc.logger.Warn("CreateBooking: failed to notify about booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// tryCreate выполняет одну попытку в транзакции.
// verdict равен nil, если транзакция прервалась до проверки правил.
func (uc *UseCase) tryCreate(ctx context.Context, req *Request, schedReq scheduling.Request) (*domain.Booking, *scheduling.Verdict, error) {
	var (
		result  *domain.Booking
		verdict *scheduling.Verdict
	)
	now := uc.timeProvider.Now()

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Блокировка (зал, дата) до чтения снимка
		if err := uc.bookingRepo.LockHallDate(txCtx, schedReq.Hall, req.Date); err != nil {
			uc.logger.Error("CreateBooking: failed to lock hall=%s: %v", schedReq.Hall, err)
			return err
		}

		// 2.2. Снимок бронирований зала на дату (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByHallAndDate(txCtx, schedReq.Hall, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return err
		}

		snapshot, skipped := scheduling.FromDomainBookings(bookings)
		if len(skipped) > 0 {
			// Не можем проверить пересечения с нечитаемыми строками - отказываем
			uc.logger.Error("CreateBooking: unparseable time in stored bookings %v", skipped)
			return fmt.Errorf("%w: stored bookings %v have invalid time", ErrInternal, skipped)
		}
		uc.logger.Debug("CreateBooking: snapshot hall=%s date=%s has %d bookings",
			schedReq.Hall, req.Date.Format(domain.DateFormat), len(snapshot))

		// 2.3. Проверка правил бронирования
		v := uc.validator.Validate(schedReq, snapshot, now)
		verdict = &v
		if !v.Admitted {
			return &RejectedError{Verdict: v}
		}

		// 2.4. Сохраняем бронирование
		booking := &domain.Booking{
			Hall:           schedReq.Hall,
			BookingDate:    req.Date,
			StartTime:      v.Interval.StartTime(),
			EndTime:        v.Interval.EndTime(),
			Status:         domain.StatusPending,
			RequesterName:  strings.TrimSpace(req.RequesterName),
			Department:     strings.TrimSpace(req.Department),
			RequesterEmail: trimmedOrNil(req.RequesterEmail),
			Purpose:        strings.TrimSpace(req.Purpose),
			CreatedBy:      req.UserID,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	return result, verdict, err
}

func (uc *UseCase) recordVerdict(hall domain.HallID, verdict scheduling.Verdict) {
	if uc.metrics == nil {
		return
	}
	rules := verdict.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = string(r)
	}
	label := string(hall)
	if !hall.IsValid() {
		label = "unknown"
	}
	uc.metrics.RecordVerdict(label, verdict.Admitted, names)
}

func isSerializationFailure(err error) bool {
	return errors.Is(err, bookingRepo.ErrSerialization) || errors.Is(err, txmanager.ErrSerialization)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		Hall:           string(b.Hall),
		HallName:       b.Hall.DisplayName(),
		BookingDate:    b.BookingDate,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		RequesterName:  b.RequesterName,
		Department:     b.Department,
		RequesterEmail: b.RequesterEmail,
		Purpose:        b.Purpose,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
