package create_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrRejected возвращается, когда заявка нарушает правила бронирования.
	// Подробности доступны через errors.As(err, *RejectedError).
	ErrRejected = errors.New("create_booking: booking rejected")

	// ErrSlotTaken возвращается, когда интервал занял параллельный запрос
	ErrSlotTaken = errors.New("create_booking: slot was taken by a concurrent booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// RejectedError отказ валидатора вместе с вердиктом.
// errors.Is работает и с ErrRejected, и с сентинелами scheduling (ErrConflict, ErrDuration, ...).
type RejectedError struct {
	Verdict scheduling.Verdict
}

func (e *RejectedError) Error() string {
	rules := e.Verdict.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = string(r)
	}
	return fmt.Sprintf("%s: %s", ErrRejected, strings.Join(names, ", "))
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func (e *RejectedError) Unwrap() error {
	return e.Verdict.Err()
}

// ConflictOnly true, если единственная причина отказа - пересечение с другим бронированием
func (e *RejectedError) ConflictOnly() bool {
	return len(e.Verdict.Violations) == 1 && e.Verdict.Has(scheduling.RuleConflict)
}
