// Package scheduling decides whether a proposed time interval for a hall and
// date is admissible. Everything here is pure: no I/O, no clock, no shared state.
package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// TimeInterval is a time-of-day range in minutes since midnight.
// Values produced by ParseInterval are not ordered yet; CheckOrdering must pass
// before Duration or Overlaps are meaningful.
type TimeInterval struct {
	start int
	end   int
}

// ParseClock converts "HH:MM" (hours 00-23, minutes 00-59) to minutes since midnight.
func ParseClock(text string) (int, error) {
	ts, err := types.NewTimeStringFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrFormat, text)
	}
	minutes, err := ts.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrFormat, text)
	}
	return minutes, nil
}

// ParseInterval builds an interval from two "HH:MM" strings.
func ParseInterval(start, end string) (TimeInterval, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return TimeInterval{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return TimeInterval{}, err
	}
	return TimeInterval{start: startMin, end: endMin}, nil
}

// FromTimeStrings builds an interval from stored values.
func FromTimeStrings(start, end types.TimeString) (TimeInterval, error) {
	return ParseInterval(start.String(), end.String())
}

// Minutes returns start and end as minutes since midnight.
func (iv TimeInterval) Minutes() (int, int) {
	return iv.start, iv.end
}

// Start is minutes since midnight, inclusive.
func (iv TimeInterval) Start() int { return iv.start }

// End is minutes since midnight, exclusive.
func (iv TimeInterval) End() int { return iv.end }

// Duration in minutes; negative for an inverted interval.
func (iv TimeInterval) Duration() int {
	return iv.end - iv.start
}

// Overlaps reports whether the two intervals share at least one minute.
// Touching intervals (one ends exactly when the other starts) do not overlap,
// so back-to-back bookings are allowed.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.start < other.end && other.start < iv.end
}

// StartTime returns the start as "HH:MM".
func (iv TimeInterval) StartTime() types.TimeString {
	return clock(iv.start)
}

// EndTime returns the end as "HH:MM".
func (iv TimeInterval) EndTime() types.TimeString {
	return clock(iv.end)
}

// String formats the interval as "HH:MM-HH:MM".
func (iv TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", iv.StartTime(), iv.EndTime())
}

func clock(minutes int) types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}
