package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
)

// ExistingBooking is a stored reservation already scoped to the candidate's hall and date.
type ExistingBooking struct {
	ID       int64
	Interval TimeInterval
	Status   domain.BookingStatus
}

// FindConflicts returns every non-cancelled booking whose interval overlaps the candidate,
// ordered by start time. The caller scopes existing to one hall and date.
// An empty, non-nil slice means there is no conflict.
func FindConflicts(candidate TimeInterval, existing []ExistingBooking) []ExistingBooking {
	conflicts := make([]ExistingBooking, 0)

	for _, b := range existing {
		if !b.Status.IsActive() {
			continue
		}
		if candidate.Overlaps(b.Interval) {
			conflicts = append(conflicts, b)
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].Interval.start != conflicts[j].Interval.start {
			return conflicts[i].Interval.start < conflicts[j].Interval.start
		}
		return conflicts[i].Interval.end < conflicts[j].Interval.end
	})

	return conflicts
}

// FromDomainBookings converts stored bookings into a conflict snapshot.
// Rows with unparseable times are skipped and their IDs returned so the caller can log them.
func FromDomainBookings(bookings []*domain.Booking) ([]ExistingBooking, []int64) {
	snapshot := make([]ExistingBooking, 0, len(bookings))
	var skipped []int64

	for _, b := range bookings {
		iv, err := FromTimeStrings(b.StartTime, b.EndTime)
		if err != nil {
			skipped = append(skipped, b.ID)
			continue
		}
		snapshot = append(snapshot, ExistingBooking{
			ID:       b.ID,
			Interval: iv,
			Status:   b.Status,
		})
	}

	return snapshot, skipped
}
