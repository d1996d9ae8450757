package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HallBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// notifier может быть nil.
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование, сотрудник - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isStaff bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(booking, userID, isStaff) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCreator(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetHallSchedule получает расписание зала на дату, упорядоченное по времени начала.
// Доступно любому авторизованному пользователю.
func (s *Service) GetHallSchedule(ctx context.Context, req *models.GetHallScheduleRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetHallSchedule: fetching schedule for hall=%s, date=%s", req.Hall, req.Date.Format(domain.DateFormat))

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetHallSchedule: invalid hall=%s", req.Hall)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.listWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetHallSchedule: repository error for hall=%s: %v", req.Hall, err)
		return nil, fmt.Errorf("%w: GetHallSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHallSchedule: successfully fetched %d bookings for hall=%s", len(bookings), req.Hall)
	return models.FromDomainBookingList(bookings), nil
}

// GetHallCalendar получает активные бронирования зала за период для выгрузки в календарь
func (s *Service) GetHallCalendar(ctx context.Context, req *models.GetHallCalendarRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetHallCalendar: invalid request hall=%s period=%s..%s: %v",
			req.Hall, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.listWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetHallCalendar: repository error for hall=%s: %v", req.Hall, err)
		return nil, fmt.Errorf("%w: GetHallCalendar - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// ListBookings получает бронирования залов с гибкой фильтрацией
// Поддерживает фильтрацию по залу, периоду, статусу и включению отменённых бронирований
// Доступно только сотрудникам
//
// Примеры использования:
// - Все активные бронирования: ListBookings(ctx, &ListBookingsRequest{UserID: 1, IsStaff: true})
// - Бронирования конкретного зала: указать Hall
// - Бронирования за период: StartDate и EndDate
// - Только ожидающие подтверждения: Status = "pending"
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("ListBookings: fetching bookings for user=%d", req.UserID)
	if req.Hall != nil {
		logMsg += fmt.Sprintf(", hall=%s", *req.Hall)
	}
	if req.StartDate != nil {
		logMsg += fmt.Sprintf(", from=%s", req.StartDate.Format(domain.DateFormat))
	}
	if req.EndDate != nil {
		logMsg += fmt.Sprintf(", to=%s", req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !req.IsStaff {
		s.logger.Warn("ListBookings: access denied for user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.listWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить своё бронирование, сотрудник - любое
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	reason, err := normalizeReason(&req.CancellationReason)
	if err != nil {
		s.logger.Warn("Cancel: invalid reason for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	// Чтение, проверки и запись в одной транзакции, уведомление - после commit
	var booking *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if !canAccess(booking, req.UserID, req.IsStaff) {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, booking.Status, reason); err != nil {
			return s.mapWriteError("Cancel", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("Cancel", err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = reason
	return s.reloadAndNotify(ctx, "Cancel", booking), nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только сотрудникам, переход должен быть разрешён workflow
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	if !req.IsStaff {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var reason *string
	if newStatus == domain.StatusCancelled {
		if reason, err = normalizeReason(req.CancellationReason); err != nil {
			s.logger.Warn("UpdateStatus: invalid reason for booking id=%d: %v", bookingID, err)
			return nil, err
		}
	}

	var booking *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, bookingID, booking.Status, reason)
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, newStatus)
		}
		if err != nil {
			return s.mapWriteError("UpdateStatus", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("UpdateStatus", err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	booking.Status = newStatus
	if newStatus == domain.StatusCancelled {
		booking.CancellationReason = reason
	}
	return s.reloadAndNotify(ctx, "UpdateStatus", booking), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// listWithFilter читает выборку в read-only транзакции
func (s *Service) listWithFilter(ctx context.Context, filter domain.HallBookingsFilter) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.GetWithFilter(txCtx, filter)
		return err
	})
	return bookings, err
}

// serviceErrors ошибки, уже сформированные внутри транзакции
var serviceErrors = []error{
	ErrBookingNotFound,
	ErrAccessDenied,
	ErrCannotCancel,
	ErrInvalidTransition,
	ErrStatusChanged,
	ErrInvalidInput,
	ErrInternal,
}

// mapTxError пропускает ошибки сервиса, сбой самой транзакции (begin, commit) считает внутренней ошибкой
func (s *Service) mapTxError(op string, err error) error {
	for _, known := range serviceErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("%s: transaction failed: %v", op, err)
	return fmt.Errorf("%w: %s - transaction failed: %v", ErrInternal, op, err)
}

func (s *Service) mapWriteError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrStatusChanged):
		s.logger.Warn("%s: booking id=%d status changed concurrently", op, id)
		return ErrStatusChanged
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found during update", op, id)
		return ErrBookingNotFound
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// reloadAndNotify перечитывает бронирование после записи и отправляет уведомление.
// Ошибки здесь не отменяют уже выполненную смену статуса: при неудачном чтении
// возвращается локально обновлённая копия.
func (s *Service) reloadAndNotify(ctx context.Context, op string, updated *domain.Booking) *models.BookingResponse {
	booking, err := s.bookingRepo.GetByID(ctx, updated.ID)
	if err != nil {
		s.logger.Warn("%s: failed to reload booking id=%d: %v", op, updated.ID, err)
		booking = updated
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyStatusChanged(ctx, booking); err != nil {
			s.logger.Warn("%s: failed to notify about booking id=%d: %v", op, booking.ID, err)
		}
	}

	return models.FromDomainBooking(booking)
}

// canAccess владелец видит и отменяет своё бронирование, сотрудник - любое
func canAccess(booking *domain.Booking, userID int64, isStaff bool) bool {
	return isStaff || booking.CreatedBy == userID
}

func normalizeReason(reason *string) (*string, error) {
	if reason == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return &trimmed, nil
}
