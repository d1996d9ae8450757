package get_available_slots

import "errors"

var (
	// ErrHallNotFound возвращается, когда зал не входит в список доступных
	ErrHallNotFound = errors.New("get_available_slots: hall not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
