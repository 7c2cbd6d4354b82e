package appointment

import (
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// Policy carries the business-day rules applied to patient changes.
type Policy struct {
	Calendar        *calendar.Calendar
	MinBusinessDays int
}

func (p Policy) calendar() *calendar.Calendar {
	if p.Calendar == nil {
		return calendar.Default
	}
	return p.Calendar
}

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the requested status on behalf of actor.
// On failure ap is left untouched.
func Transition(
	ap *models.Appointment,
	to Status,
	actor Actor,
	now time.Time,
	policy Policy,
) error {
	from := Status(ap.Status)

	if !CanTransition(from, to, actor) {
		return ErrInvalidTransition
	}

	switch to {
	case StatusCompleted:
		if actor == ActorSystem && !ap.DateTime.Before(now) {
			return ErrInvalidTransition
		}
		if ap.DateTime.After(now) {
			return ErrInvalidTransition
		}

	case StatusCancelled:
		if actor == ActorPatient &&
			!CanModify(ap, now, policy.MinBusinessDays, policy.calendar()) {
			return ErrModificationWindowExpired
		}
	}

	ap.Status = string(to)
	ap.UpdatedAt = now

	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancelledBy = string(actor)
	case StatusCompleted:
		ap.CompletedAt = &now
	}

	return nil
}

func Confirm(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusConfirmed, ActorDoctor, now, Policy{})
}

func Cancel(ap *models.Appointment, actor Actor, now time.Time, policy Policy) error {
	return Transition(ap, StatusCancelled, actor, now, policy)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, ActorDoctor, now, Policy{})
}

// AutoComplete is the sweep transition for appointments whose time has passed.
func AutoComplete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, ActorSystem, now, Policy{})
}

// Reschedule moves an active appointment to a new time. Patients are held to
// the same lead time as cancellations, measured against the current time.
func Reschedule(
	ap *models.Appointment,
	to time.Time,
	actor Actor,
	now time.Time,
	policy Policy,
) error {
	if !Status(ap.Status).IsActive() || actor == ActorSystem {
		return ErrInvalidTransition
	}

	if actor == ActorPatient &&
		!CanModify(ap, now, policy.MinBusinessDays, policy.calendar()) {
		return ErrModificationWindowExpired
	}

	ap.DateTime = to
	ap.UpdatedAt = now
	ap.ReminderSentAt = nil
	return nil
}
