package scheduling

import "fmt"

// Business hours and duration limits, minutes since midnight / minutes.
const (
	OpenMinutes        = 9 * 60     // 09:00
	CloseMinutes       = 16*60 + 30 // 16:30
	MinDurationMinutes = 30
	MaxDurationMinutes = 8 * 60
)

// Policy is the fixed operating window and duration limits.
type Policy struct {
	Open        int
	Close       int
	MinDuration int
	MaxDuration int
}

// DefaultPolicy 09:00-16:30, 30 minutes to 8 hours.
var DefaultPolicy = Policy{
	Open:        OpenMinutes,
	Close:       CloseMinutes,
	MinDuration: MinDurationMinutes,
	MaxDuration: MaxDurationMinutes,
}

// CheckOrdering rejects zero-length and inverted intervals.
func (p Policy) CheckOrdering(iv TimeInterval) error {
	if iv.end <= iv.start {
		return fmt.Errorf("%w: %s is not after %s", ErrOrdering, iv.EndTime(), iv.StartTime())
	}
	return nil
}

// CheckDuration enforces MinDuration <= duration <= MaxDuration.
func (p Policy) CheckDuration(iv TimeInterval) error {
	d := iv.Duration()
	if d < p.MinDuration {
		return fmt.Errorf("%w: too short, %d minutes is below the %d minute minimum", ErrDuration, d, p.MinDuration)
	}
	if d > p.MaxDuration {
		return fmt.Errorf("%w: too long, %d minutes exceeds the %d minute maximum", ErrDuration, d, p.MaxDuration)
	}
	return nil
}

// CheckBounds enforces Open <= start and end <= Close. Both ends are inclusive.
func (p Policy) CheckBounds(iv TimeInterval) error {
	startsEarly := iv.start < p.Open
	endsLate := iv.end > p.Close

	switch {
	case startsEarly && endsLate:
		return fmt.Errorf("%w: %s must lie within %s", ErrOutOfHours, iv, p.Hours())
	case startsEarly:
		return fmt.Errorf("%w: starts at %s, before opening at %s", ErrOutOfHours, iv.StartTime(), clock(p.Open))
	case endsLate:
		return fmt.Errorf("%w: ends at %s, after closing at %s", ErrOutOfHours, iv.EndTime(), clock(p.Close))
	}
	return nil
}

// Hours returns the operating window as "HH:MM-HH:MM".
func (p Policy) Hours() string {
	return fmt.Sprintf("%s-%s", clock(p.Open), clock(p.Close))
}
