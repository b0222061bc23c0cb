package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{"daily", Rule{Frequency: Daily, Interval: 1}, nil},
		{"weekly with days", Rule{Frequency: Weekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Monday, time.Friday}}, nil},
		{"unknown frequency", Rule{Frequency: "hourly", Interval: 1}, ErrInvalidFrequency},
		{"zero interval", Rule{Frequency: Daily, Interval: 0}, ErrInvalidInterval},
		{"bad weekday", Rule{Frequency: Weekly, Interval: 1, DaysOfWeek: []time.Weekday{7}}, ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNextAfter_Daily(t *testing.T) {
	rule := Rule{Frequency: Daily, Interval: 3}
	next := rule.NextAfter(date(2026, time.March, 30))
	assert.Equal(t, date(2026, time.April, 2), next)
}

func TestNextAfter_WeeklyWithoutDays(t *testing.T) {
	rule := Rule{Frequency: Weekly, Interval: 2}
	next := rule.NextAfter(date(2026, time.January, 5))
	assert.Equal(t, date(2026, time.January, 19), next)
}

func TestNextAfter_WeeklyWithDays(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := date(2026, time.January, 5)
	require.Equal(t, time.Monday, monday.Weekday())

	rule := Rule{Frequency: Weekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}

	wed := rule.NextAfter(monday)
	assert.Equal(t, date(2026, time.January, 7), wed)
	assert.Equal(t, time.Wednesday, wed.Weekday())

	fri := rule.NextAfter(wed)
	assert.Equal(t, date(2026, time.January, 9), fri)

	// After Friday the week's selected days are exhausted: wraps to next Monday.
	nextMon := rule.NextAfter(fri)
	assert.Equal(t, date(2026, time.January, 12), nextMon)
}

func TestNextAfter_WeeklyWithDaysSkipsWeeks(t *testing.T) {
	// Every other week on Tuesday; from a Tuesday the next hit is 14 days out.
	tuesday := date(2026, time.January, 6)
	require.Equal(t, time.Tuesday, tuesday.Weekday())

	rule := Rule{Frequency: Weekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Tuesday}}
	next := rule.NextAfter(tuesday)
	assert.Equal(t, date(2026, time.January, 20), next)
}

func TestNextAfter_MonthlyClampsOverflow(t *testing.T) {
	rule := Rule{Frequency: Monthly, Interval: 1}

	feb := rule.NextAfter(date(2026, time.January, 31))
	assert.Equal(t, date(2026, time.February, 28), feb)

	leapFeb := rule.NextAfter(date(2028, time.January, 31))
	assert.Equal(t, date(2028, time.February, 29), leapFeb)

	// No clamp needed when the day fits.
	apr := rule.NextAfter(date(2026, time.March, 15))
	assert.Equal(t, date(2026, time.April, 15), apr)
}

func TestNextAfter_Yearly(t *testing.T) {
	rule := Rule{Frequency: Yearly, Interval: 1}

	next := rule.NextAfter(date(2026, time.June, 1))
	assert.Equal(t, date(2027, time.June, 1), next)

	// Feb 29 clamps to Feb 28 in a non-leap year.
	clamped := rule.NextAfter(date(2028, time.February, 29))
	assert.Equal(t, date(2029, time.February, 28), clamped)
}

func TestNextAfter_StrictlyAdvances(t *testing.T) {
	rules := []Rule{
		{Frequency: Daily, Interval: 1},
		{Frequency: Weekly, Interval: 1},
		{Frequency: Weekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Sunday}},
		{Frequency: Monthly, Interval: 1},
		{Frequency: Yearly, Interval: 1},
	}

	start := date(2026, time.January, 31)
	for _, rule := range rules {
		cursor := start
		for i := 0; i < 24; i++ {
			next := rule.NextAfter(cursor)
			require.True(t, next.After(cursor), "%s rule did not advance past %s", rule.Frequency, cursor)
			cursor = next
		}
	}
}

func TestExpired(t *testing.T) {
	until := date(2026, time.March, 1)
	rule := Rule{Frequency: Daily, Interval: 1, Until: &until}

	assert.False(t, rule.Expired(date(2026, time.February, 28)))
	assert.False(t, rule.Expired(until))
	assert.True(t, rule.Expired(date(2026, time.March, 2)))

	open := Rule{Frequency: Daily, Interval: 1}
	assert.False(t, open.Expired(date(2100, time.January, 1)))
}
