package domain

// Business validation constants
const (
	MaxPurposeLength            = 500
	MaxRequesterNameLength      = 100
	MaxDepartmentLength         = 100
	MaxEmailLength              = 254
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, которые занимают зал
// Используется при проверке пересечений и в выборках без отменённых
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
