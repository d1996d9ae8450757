package scheduling

import "errors"

var (
	// ErrFormat время не соответствует формату HH:MM
	ErrFormat = errors.New("scheduling: invalid time format")

	// ErrOrdering время окончания не позже времени начала
	ErrOrdering = errors.New("scheduling: end time must be after start time")

	// ErrOutOfHours интервал выходит за рабочие часы
	ErrOutOfHours = errors.New("scheduling: outside business hours")

	// ErrDuration длительность вне допустимого диапазона
	ErrDuration = errors.New("scheduling: invalid duration")

	// ErrConflict интервал пересекается с существующим бронированием
	ErrConflict = errors.New("scheduling: conflicts with an existing booking")

	// ErrInvalidPurpose цель мероприятия пустая или слишком длинная
	ErrInvalidPurpose = errors.New("scheduling: invalid purpose")

	// ErrInvalidRequester не указаны заявитель или кафедра, либо некорректный email
	ErrInvalidRequester = errors.New("scheduling: invalid requester")

	// ErrInvalidDate дата не указана или уже прошла
	ErrInvalidDate = errors.New("scheduling: invalid booking date")

	// ErrUnknownHall зал не входит в список доступных
	ErrUnknownHall = errors.New("scheduling: unknown hall")
)
