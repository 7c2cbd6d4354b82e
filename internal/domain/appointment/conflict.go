package appointment

import (
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// HasConflict reports whether the snapshot holds an active appointment for
// the doctor at exactly at.
func HasConflict(existing []models.Appointment, doctorID uint, at time.Time) bool {
	for _, ap := range existing {
		if ap.DoctorID != doctorID || !Status(ap.Status).IsActive() {
			continue
		}
		if ap.DateTime.Equal(at) {
			return true
		}
	}
	return false
}

// CanModify reports whether enough business days remain before the
// appointment for a patient-initiated change. Both instants are read as
// calendar dates in now's location, whatever zone ap.DateTime carries.
func CanModify(
	ap *models.Appointment,
	now time.Time,
	minBusinessDays int,
	cal *calendar.Calendar,
) bool {
	if cal == nil {
		cal = calendar.Default
	}
	return cal.HasAtLeastBusinessDays(now, ap.DateTime.In(now.Location()), minBusinessDays)
}
