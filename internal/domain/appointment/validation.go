package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

const clockLayout = "15:04"

var errBadClock = errors.New("invalid clock value")

// ParseClock parses "HH:MM".
func ParseClock(hm string) (int, int, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, 0, errBadClock
	}
	return t.Hour(), t.Minute(), nil
}

func clockMinutes(hm string) (int, error) {
	h, m, err := ParseClock(hm)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// ValidateRule rejects malformed weekly rules before they are stored.
func ValidateRule(r models.DoctorAvailabilityRule) error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return ErrInvalidRule
	}
	if r.SlotDurationMinutes <= 0 {
		return ErrInvalidRule
	}

	start, err := clockMinutes(r.StartTime)
	if err != nil {
		return ErrInvalidRule
	}
	end, err := clockMinutes(r.EndTime)
	if err != nil {
		return ErrInvalidRule
	}
	if start >= end {
		return ErrInvalidRule
	}
	return nil
}

func ValidateException(e models.AvailabilityException) error {
	if _, err := calendar.ParseDate(e.Date); err != nil {
		return ErrInvalidException
	}

	if e.StartTime == "" && e.EndTime == "" {
		return nil
	}
	if !e.IsAvailable || e.StartTime == "" || e.EndTime == "" {
		return ErrInvalidException
	}

	start, err := clockMinutes(e.StartTime)
	if err != nil {
		return ErrInvalidException
	}
	end, err := clockMinutes(e.EndTime)
	if err != nil {
		return ErrInvalidException
	}
	if start >= end {
		return ErrInvalidException
	}
	return nil
}
