package scheduling

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
)

// Rule names a single admission rule. Rule values are the keys of Verdict.Reasons.
type Rule string

const (
	RuleTimeFormat    Rule = "time_format"
	RuleTimeOrder     Rule = "time_order"
	RuleDuration      Rule = "duration"
	RuleBusinessHours Rule = "business_hours"
	RulePurpose       Rule = "purpose"
	RuleRequester     Rule = "requester"
	RuleDate          Rule = "date"
	RuleHall          Rule = "hall"
	RuleConflict      Rule = "conflict"
)

// AllRules in reporting order.
var AllRules = []Rule{
	RuleTimeFormat,
	RuleTimeOrder,
	RuleDuration,
	RuleBusinessHours,
	RulePurpose,
	RuleRequester,
	RuleDate,
	RuleHall,
	RuleConflict,
}

// Request is the scheduling-relevant part of a booking request.
type Request struct {
	Hall           domain.HallID
	Date           time.Time
	StartTime      string
	EndTime        string
	RequesterName  string
	Department     string
	RequesterEmail string // optional
	Purpose        string
}

// Violation is one failed rule. Kind is the sentinel error, Reason is shown to the user.
type Violation struct {
	Rule   Rule
	Kind   error
	Reason string
}

// Verdict is the outcome of Validate.
type Verdict struct {
	Admitted   bool
	Violations map[Rule]Violation

	// Interval is set when the times parsed and were correctly ordered.
	Interval *TimeInterval

	// Conflicts ordered by start time; empty when there is none.
	Conflicts []ExistingBooking
}

// Has reports whether the rule failed.
func (v Verdict) Has(rule Rule) bool {
	_, ok := v.Violations[rule]
	return ok
}

// ConflictCount is the number of overlapping non-cancelled bookings.
func (v Verdict) ConflictCount() int {
	return len(v.Conflicts)
}

// Rules returns the failed rules in reporting order.
func (v Verdict) Rules() []Rule {
	rules := make([]Rule, 0, len(v.Violations))
	for _, r := range AllRules {
		if _, ok := v.Violations[r]; ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// Reasons maps rule name to human-readable reason.
func (v Verdict) Reasons() map[string]string {
	reasons := make(map[string]string, len(v.Violations))
	for rule, violation := range v.Violations {
		reasons[string(rule)] = violation.Reason
	}
	return reasons
}

// Err joins every violation into one error; nil when admitted.
// errors.Is works against each sentinel (ErrConflict, ErrDuration, ...).
func (v Verdict) Err() error {
	if v.Admitted {
		return nil
	}
	errs := make([]error, 0, len(v.Violations))
	for _, rule := range v.Rules() {
		violation := v.Violations[rule]
		errs = append(errs, fmt.Errorf("%w: %s", violation.Kind, violation.Reason))
	}
	return errors.Join(errs...)
}

// Validator composes the interval model, the policy and the conflict detector.
// It keeps no state between calls and is safe for concurrent use.
//
// Validate is necessary but not sufficient for race-free booking: the caller must
// serialise "load snapshot, validate, insert" per (hall, date).
type Validator struct {
	policy Policy
}

// NewValidator creates a validator with the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

var defaultValidator = NewValidator(DefaultPolicy)

// Validate runs the default policy.
func Validate(req Request, existing []ExistingBooking, today time.Time) Verdict {
	return defaultValidator.Validate(req, existing, today)
}

// Validate decides whether req can be admitted against existing, a snapshot of
// bookings for the same hall and date. today is the current date; only its
// calendar day is used.
//
// Failures accumulate. A malformed time skips every interval rule; an inverted
// interval skips duration, hours and conflict rules. Field rules always run.
func (v *Validator) Validate(req Request, existing []ExistingBooking, today time.Time) Verdict {
	verdict := Verdict{
		Violations: make(map[Rule]Violation),
		Conflicts:  []ExistingBooking{},
	}

	add := func(rule Rule, err error, kind error) {
		verdict.Violations[rule] = Violation{Rule: rule, Kind: kind, Reason: reason(err, kind)}
	}

	if iv, ok := v.checkTimes(req, add); ok {
		verdict.Interval = &iv

		if err := v.policy.CheckDuration(iv); err != nil {
			add(RuleDuration, err, ErrDuration)
		}
		if err := v.policy.CheckBounds(iv); err != nil {
			add(RuleBusinessHours, err, ErrOutOfHours)
		}

		verdict.Conflicts = FindConflicts(iv, existing)
		if n := len(verdict.Conflicts); n > 0 {
			first := verdict.Conflicts[0]
			add(RuleConflict, fmt.Errorf("%w: overlaps %s (%d conflicting booking(s))",
				ErrConflict, first.Interval, n), ErrConflict)
		}
	}

	if err := checkPurpose(req.Purpose); err != nil {
		add(RulePurpose, err, ErrInvalidPurpose)
	}
	if err := checkRequester(req.RequesterName, req.Department, req.RequesterEmail); err != nil {
		add(RuleRequester, err, ErrInvalidRequester)
	}
	if err := checkDate(req.Date, today); err != nil {
		add(RuleDate, err, ErrInvalidDate)
	}
	if !req.Hall.IsValid() {
		add(RuleHall, fmt.Errorf("%w: %q", ErrUnknownHall, string(req.Hall)), ErrUnknownHall)
	}

	verdict.Admitted = len(verdict.Violations) == 0
	return verdict
}

// checkTimes parses and orders the interval; ok is false when later interval rules must be skipped.
func (v *Validator) checkTimes(req Request, add func(Rule, error, error)) (TimeInterval, bool) {
	iv, err := ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		add(RuleTimeFormat, err, ErrFormat)
		return TimeInterval{}, false
	}
	if err := v.policy.CheckOrdering(iv); err != nil {
		add(RuleTimeOrder, err, ErrOrdering)
		return TimeInterval{}, false
	}
	return iv, true
}

func checkPurpose(purpose string) error {
	trimmed := strings.TrimSpace(purpose)
	if trimmed == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidPurpose)
	}
	if n := utf8.RuneCountInString(trimmed); n > domain.MaxPurposeLength {
		return fmt.Errorf("%w: %d characters exceeds the %d character limit", ErrInvalidPurpose, n, domain.MaxPurposeLength)
	}
	return nil
}

// checkRequester reports every problem with the requester fields in one reason.
func checkRequester(name, department, email string) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"requester name", name, domain.MaxRequesterNameLength},
		{"department", department, domain.MaxDepartmentLength},
	}

	var problems []string
	for _, f := range fields {
		trimmed := strings.TrimSpace(f.value)
		switch {
		case trimmed == "":
			problems = append(problems, f.name+" is required")
		case utf8.RuneCountInString(trimmed) > f.max:
			problems = append(problems, fmt.Sprintf("%s must be at most %d characters", f.name, f.max))
		}
	}

	if email = strings.TrimSpace(email); email != "" {
		if len(email) > domain.MaxEmailLength {
			problems = append(problems, fmt.Sprintf("email must be at most %d characters", domain.MaxEmailLength))
		} else if _, err := mail.ParseAddress(email); err != nil {
			problems = append(problems, "email is not a valid address")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequester, strings.Join(problems, "; "))
}

func checkDate(date, today time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if dateOnly(date).Before(dateOnly(today)) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	return nil
}

// dateOnly drops the time of day, keeping the calendar date as written.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reason strips the sentinel prefix so the user sees only the detail.
func reason(err, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return msg[len(prefix):]
	}
	return msg
}
