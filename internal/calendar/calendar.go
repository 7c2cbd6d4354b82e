package calendar

import (
	"sort"
	"sync"
	"time"
)

const (
	DateLayout = "2006-01-02"

	BusinessDayStartHour = 9
	BusinessDayEndHour   = 18
	BusinessHoursPerDay  = 8
)

// Calendar holds the holiday set used by business-day arithmetic.
// Reads and writes are safe from any goroutine.
type Calendar struct {
	mu       sync.RWMutex
	holidays map[string]struct{}
}

func New(holidays ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[key(h)] = struct{}{}
	}
	return c
}

// Default is the process-wide calendar.
var Default = New()

// ===============================
// Holiday set
// ===============================

func (c *Calendar) AddHoliday(date time.Time) {
	c.mu.Lock()
	c.holidays[key(date)] = struct{}{}
	c.mu.Unlock()
}

func (c *Calendar) RemoveHoliday(date time.Time) {
	c.mu.Lock()
	delete(c.holidays, key(date))
	c.mu.Unlock()
}

func (c *Calendar) IsHoliday(date time.Time) bool {
	c.mu.RLock()
	_, ok := c.holidays[key(date)]
	c.mu.RUnlock()
	return ok
}

// SetHolidays replaces the whole set.
func (c *Calendar) SetHolidays(dates []time.Time) {
	next := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		next[key(d)] = struct{}{}
	}

	c.mu.Lock()
	c.holidays = next
	c.mu.Unlock()
}

// Holidays returns the set as UTC midnights, ascending.
func (c *Calendar) Holidays() []time.Time {
	c.mu.RLock()
	out := make([]time.Time, 0, len(c.holidays))
	for k := range c.holidays {
		d, err := time.Parse(DateLayout, k)
		if err == nil {
			out = append(out, d)
		}
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ===============================
// Business days
// ===============================

func (c *Calendar) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(date)
}

// CountBusinessDaysBetween counts business days strictly between the
// calendar dates of start and end. Reversed or same-day inputs yield 0.
func (c *Calendar) CountBusinessDaysBetween(start, end time.Time) int {
	from := DateOf(start)
	to := DateOf(end)
	if !from.Before(to) {
		return 0
	}

	count := 0
	for d := from.AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			count++
		}
	}
	return count
}

func (c *Calendar) HasAtLeastBusinessDays(start, end time.Time, n int) bool {
	return c.CountBusinessDaysBetween(start, end) >= n
}

// CountBusinessHoursBetween is an approximation: for every business day it
// takes the overlap of [start, end] with 09:00-18:00, capped at eight hours,
// and truncates the sum to whole hours. It is not meant for hard gating.
func (c *Calendar) CountBusinessHoursBetween(start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}

	loc := start.Location()
	end = end.In(loc)

	var total time.Duration
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for day := first; day.Before(end); day = day.AddDate(0, 0, 1) {
		if !c.IsBusinessDay(day) {
			continue
		}

		opening := time.Date(day.Year(), day.Month(), day.Day(), BusinessDayStartHour, 0, 0, 0, loc)
		closing := time.Date(day.Year(), day.Month(), day.Day(), BusinessDayEndHour, 0, 0, 0, loc)

		from := maxTime(opening, start)
		to := minTime(closing, end)
		if !from.Before(to) {
			continue
		}

		worked := to.Sub(from)
		if worked > BusinessHoursPerDay*time.Hour {
			worked = BusinessHoursPerDay * time.Hour
		}
		total += worked
	}

	return int(total / time.Hour)
}

// ===============================
// Helpers
// ===============================

// DateOf drops the clock part, keeping the date as read in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func key(t time.Time) string {
	return t.Format(DateLayout)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// ===============================
// Process-wide helpers
// ===============================

func IsBusinessDay(date time.Time) bool {
	return Default.IsBusinessDay(date)
}

func CountBusinessDaysBetween(start, end time.Time) int {
	return Default.CountBusinessDaysBetween(start, end)
}

func HasAtLeastBusinessDays(start, end time.Time, n int) bool {
	return Default.HasAtLeastBusinessDays(start, end, n)
}

func CountBusinessHoursBetween(start, end time.Time) int {
	return Default.CountBusinessHoursBetween(start, end)
}

func AddHoliday(date time.Time) {
	Default.AddHoliday(date)
}

func RemoveHoliday(date time.Time) {
	Default.RemoveHoliday(date)
}
