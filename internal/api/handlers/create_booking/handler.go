package create_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-HallBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HallBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-HallBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgRejected           = "заявка не соответствует правилам бронирования"
	msgConflict           = "зал уже забронирован на выбранное время"
	msgSlotTaken          = "выбранное время только что занято другой заявкой"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid booking date %q: %v", req.BookingDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rejected *createBooking.RejectedError

		// Обработка ошибок use case
		switch {
		case errors.As(err, &rejected):
			reasons := rejected.Verdict.Reasons()
			if rejected.ConflictOnly() {
				h.logger.Warn("POST /bookings - Conflict: user_id=%d, hall=%s, reason=%s",
					userID, req.Hall, reasons["conflict"])
				handlers.RespondErrorWithReasons(w, http.StatusConflict, msgConflict, reasons)
				return
			}
			h.logger.Warn("POST /bookings - Rejected: user_id=%d, hall=%s, rules=%v",
				userID, req.Hall, rejected.Verdict.Rules())
			handlers.RespondErrorWithReasons(w, http.StatusBadRequest, msgRejected, reasons)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken concurrently: user_id=%d, hall=%s", userID, req.Hall)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, invalidInputMessage(err))

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, hall=%s, error=%v",
				userID, req.Hall, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, hall=%s",
		result.ID, userID, result.Hall)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// invalidInputMessage отдаёт клиенту деталь ошибки без префикса пакета
func invalidInputMessage(err error) string {
	prefix := createBooking.ErrInvalidInput.Error() + ": "
	if msg := err.Error(); strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msgInvalidRequestBody
}
