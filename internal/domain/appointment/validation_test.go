package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(mondayRule("09:00", "12:00", 30)))

	bad := []models.DoctorAvailabilityRule{
		mondayRule("12:00", "09:00", 30),
		mondayRule("09:00", "09:00", 30),
		mondayRule("09:00", "12:00", 0),
		mondayRule("9h", "12:00", 30),
		mondayRule("09:00", "25:00", 30),
		{Weekday: 7, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 15},
	}
	for _, r := range bad {
		assert.ErrorIs(t, ValidateRule(r), ErrInvalidRule, "%+v", r)
	}
}

func TestValidateException(t *testing.T) {
	assert.NoError(t, ValidateException(models.AvailabilityException{Date: "2024-12-16"}))
	assert.NoError(t, ValidateException(models.AvailabilityException{
		Date: "2024-12-16", IsAvailable: true, StartTime: "08:00", EndTime: "09:00",
	}))

	bad := []models.AvailabilityException{
		{Date: "16/12/2024"},
		{Date: "2024-12-16", IsAvailable: false, StartTime: "08:00", EndTime: "09:00"},
		{Date: "2024-12-16", IsAvailable: true, StartTime: "08:00"},
		{Date: "2024-12-16", IsAvailable: true, StartTime: "10:00", EndTime: "09:00"},
	}
	for _, e := range bad {
		assert.ErrorIs(t, ValidateException(e), ErrInvalidException, "%+v", e)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	assert.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseClock("7:45pm")
	assert.Error(t, err)
}
