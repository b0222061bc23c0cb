// Package recurrence describes how often a recurring template spawns a task
// and computes the next occurrence of a rule.
package recurrence

import (
	"errors"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

var (
	ErrInvalidFrequency = errors.New("frequency must be one of daily, weekly, monthly, yearly")
	ErrInvalidInterval  = errors.New("interval must be at least 1")
	ErrInvalidWeekday   = errors.New("days_of_week values must be 0 (Sunday) through 6 (Saturday)")
)

// Rule describes a recurrence pattern. DaysOfWeek only applies to weekly rules;
// Until, when set, ends the recurrence.
type Rule struct {
	Frequency  Frequency      `json:"frequency"`
	Interval   int            `json:"interval"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	Until      *time.Time     `json:"until,omitempty"`
}

// Validate checks the rule's fields.
func (r Rule) Validate() error {
	switch r.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return ErrInvalidFrequency
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidWeekday
		}
	}
	return nil
}

// NextAfter returns the first occurrence strictly after t.
//
// Monthly advancement moves the month component and clamps overflow days to
// the last valid day of the resulting month (Jan 31 + 1 month = Feb 28/29).
// Weekly rules with a DaysOfWeek set step to the next listed weekday strictly
// after t, preserving t's time of day; once the selected weekdays of t's week
// are exhausted, (interval-1) weeks are skipped before the next active week.
func (r Rule) NextAfter(t time.Time) time.Time {
	switch r.Frequency {
	case Daily:
		return t.AddDate(0, 0, r.Interval)
	case Weekly:
		if len(r.DaysOfWeek) == 0 {
			return t.AddDate(0, 0, 7*r.Interval)
		}
		return r.nextWeekday(t)
	case Monthly:
		return addMonthsClamped(t, r.Interval)
	case Yearly:
		return addMonthsClamped(t, 12*r.Interval)
	}
	return t.AddDate(0, 0, r.Interval)
}

// Expired reports whether next falls past the rule's end date.
func (r Rule) Expired(next time.Time) bool {
	return r.Until != nil && next.After(*r.Until)
}

func (r Rule) nextWeekday(t time.Time) time.Time {
	selected := make(map[time.Weekday]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		selected[d] = true
	}

	// Remaining selected weekday within t's week (up to the coming Saturday).
	for offset := 1; offset <= int(time.Saturday-t.Weekday()); offset++ {
		candidate := t.AddDate(0, 0, offset)
		if selected[candidate.Weekday()] {
			return candidate
		}
	}

	// First selected weekday of the next active week.
	startOfNextWeek := t.AddDate(0, 0, 7*(r.Interval-1)+int(time.Saturday-t.Weekday())+1)
	for offset := 0; offset < 7; offset++ {
		candidate := startOfNextWeek.AddDate(0, 0, offset)
		if selected[candidate.Weekday()] {
			return candidate
		}
	}

	// Unreachable for a validated rule.
	return t.AddDate(0, 0, 7*r.Interval)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := lastDayOfMonth(first); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 0, -1).Day()
}
