package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !domain.HallID(req.Hall).IsValid() {
		return fmt.Errorf("%w: %q", ErrHallNotFound, req.Hall)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > scheduling.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between 0 and %d minutes", ErrInvalidInput, scheduling.MaxDurationMinutes)
	}

	return nil
}
