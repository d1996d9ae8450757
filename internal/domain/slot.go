package domain

import "github.com/m04kA/SMC-HallBooking/pkg/types"

// FreeWindow represents a gap in a hall's day schedule that can still be booked
type FreeWindow struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// Fits returns true if a booking of the given length fits into the window
func (w *FreeWindow) Fits(minutes int) bool {
	return minutes > 0 && minutes <= w.DurationMinutes
}
