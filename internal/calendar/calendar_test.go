package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIsBusinessDay_Weekends(t *testing.T) {
	c := New()

	assert.True(t, c.IsBusinessDay(date(2024, 12, 16, 0, 0)))  // Monday
	assert.True(t, c.IsBusinessDay(date(2024, 12, 20, 23, 0))) // Friday
	assert.False(t, c.IsBusinessDay(date(2024, 12, 21, 10, 0)))
	assert.False(t, c.IsBusinessDay(date(2024, 12, 22, 10, 0)))
}

func TestIsBusinessDay_Deterministic(t *testing.T) {
	c := New(date(2024, 12, 25, 0, 0))

	for d := date(2024, 12, 1, 0, 0); d.Before(date(2025, 1, 31, 0, 0)); d = d.AddDate(0, 0, 1) {
		assert.Equal(t, c.IsBusinessDay(d), c.IsBusinessDay(d), d.Format(DateLayout))
	}
}

func TestHolidayRoundTrip(t *testing.T) {
	c := New()
	xmas := date(2024, 12, 25, 15, 30)

	before := c.IsBusinessDay(xmas)
	require.True(t, before)

	c.AddHoliday(xmas)
	assert.False(t, c.IsBusinessDay(xmas))
	assert.False(t, c.IsBusinessDay(date(2024, 12, 25, 0, 0)), "holiday covers the whole date")

	c.RemoveHoliday(xmas)
	assert.Equal(t, before, c.IsBusinessDay(xmas))
}

func TestSetHolidays_Replaces(t *testing.T) {
	c := New(date(2024, 1, 1, 0, 0))
	c.SetHolidays([]time.Time{date(2024, 12, 25, 0, 0), date(2024, 11, 15, 0, 0)})

	assert.False(t, c.IsHoliday(date(2024, 1, 1, 0, 0)))
	assert.Equal(t, []time.Time{date(2024, 11, 15, 0, 0), date(2024, 12, 25, 0, 0)}, c.Holidays())
}

func TestCountBusinessDaysBetween_ExcludesEndpoints(t *testing.T) {
	c := New()

	n := c.CountBusinessDaysBetween(date(2024, 12, 16, 9, 0), date(2024, 12, 20, 17, 0))
	assert.Equal(t, 3, n) // Tue, Wed, Thu
}

func TestCountBusinessDaysBetween_SkipsWeekendAndHolidays(t *testing.T) {
	c := New(date(2024, 12, 25, 0, 0))

	// Fri 20th -> Fri 27th: Mon 23, Tue 24, Thu 26 (25th is a holiday)
	n := c.CountBusinessDaysBetween(date(2024, 12, 20, 12, 0), date(2024, 12, 27, 12, 0))
	assert.Equal(t, 3, n)
}

func TestCountBusinessDaysBetween_NoNegativeCounts(t *testing.T) {
	c := New()
	a := date(2024, 12, 16, 9, 0)

	assert.Zero(t, c.CountBusinessDaysBetween(a, a))
	assert.Zero(t, c.CountBusinessDaysBetween(a, date(2024, 12, 16, 23, 59)))
	assert.Zero(t, c.CountBusinessDaysBetween(date(2024, 12, 20, 9, 0), a))
	assert.Zero(t, c.CountBusinessDaysBetween(a, date(2024, 12, 17, 9, 0)))
}

func TestCountBusinessDaysBetween_MonotonicInEnd(t *testing.T) {
	c := New(date(2025, 1, 1, 0, 0))
	start := date(2024, 12, 18, 10, 0)

	prev := 0
	for end := start; end.Before(date(2025, 2, 1, 0, 0)); end = end.Add(7 * time.Hour) {
		n := c.CountBusinessDaysBetween(start, end)
		require.GreaterOrEqual(t, n, prev, end.String())
		prev = n
	}
}

func TestHasAtLeastBusinessDays(t *testing.T) {
	c := New()
	now := date(2024, 12, 16, 9, 0)  // Monday
	appt := date(2024, 12, 18, 9, 0) // Wednesday, only Tuesday in between

	assert.True(t, c.HasAtLeastBusinessDays(now, appt, 1))
	assert.False(t, c.HasAtLeastBusinessDays(now, appt, 2))
	assert.True(t, c.HasAtLeastBusinessDays(now, appt, 0))
}

func TestCountBusinessHoursBetween(t *testing.T) {
	c := New()

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"reversed", date(2024, 12, 17, 12, 0), date(2024, 12, 16, 12, 0), 0},
		{"same day inside window", date(2024, 12, 16, 10, 0), date(2024, 12, 16, 13, 30), 3},
		{"full day is capped", date(2024, 12, 16, 0, 0), date(2024, 12, 17, 0, 0), 8},
		{"over the weekend", date(2024, 12, 20, 17, 0), date(2024, 12, 23, 11, 0), 3},
		{"before opening", date(2024, 12, 16, 6, 0), date(2024, 12, 16, 8, 59), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CountBusinessHoursBetween(tt.start, tt.end))
		})
	}
}

func TestDefaultCalendar(t *testing.T) {
	d := date(2031, 3, 4, 0, 0) // Tuesday
	t.Cleanup(func() { RemoveHoliday(d) })

	require.True(t, IsBusinessDay(d))
	AddHoliday(d)
	assert.False(t, IsBusinessDay(d))
	assert.Equal(t, 0, CountBusinessDaysBetween(date(2031, 3, 3, 0, 0), date(2031, 3, 5, 0, 0)))
	assert.False(t, HasAtLeastBusinessDays(date(2031, 3, 3, 0, 0), date(2031, 3, 5, 0, 0), 1))
	assert.Equal(t, 0, CountBusinessHoursBetween(date(2031, 3, 4, 9, 0), date(2031, 3, 4, 18, 0)))
}
