package list_halls

import (
	"net/http"

	"github.com/m04kA/SMC-HallBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
)

type Handler struct {
	response *HallsResponse
	logger   Logger
}

// NewHandler собирает ответ один раз: набор залов и часы работы фиксированы
func NewHandler(logger Logger) (*Handler, error) {
	resp, err := NewHallsResponse(domain.AllHalls, scheduling.DefaultPolicy)
	if err != nil {
		return nil, err
	}
	return &Handler{
		response: resp,
		logger:   logger,
	}, nil
}

// Handle GET /api/v1/halls
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	h.logger.Info("GET /halls - Returning %d halls", len(h.response.Halls))
	handlers.RespondJSON(w, http.StatusOK, h.response)
}
