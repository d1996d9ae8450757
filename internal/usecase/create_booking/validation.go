package create_booking

import (
	"fmt"
	"strings"
)

// validateRequest проверяет только то, без чего нельзя загрузить снимок зала.
// Содержательные правила (время, часы работы, пересечения, цель, заявитель, дата, зал)
// проверяет scheduling.Validator, и все нарушения попадают в один вердикт.
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.StartTime) == "" || strings.TrimSpace(req.EndTime) == "" {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	return nil
}
