package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

// MaxAvailabilityDays bounds a single availability query.
const MaxAvailabilityDays = 62

var (
	ErrInvalidRange    = httperr.ErrBusiness("invalid_range")
	ErrInvalidDateTime = httperr.ErrBusiness("invalid_date_or_time")
	ErrInThePast       = httperr.ErrBusiness("in_the_past")
	ErrAgendaBusy      = httperr.ErrBusiness("agenda_busy")
)

// Caller identifies who is acting, as read from the access token.
type Caller struct {
	UserID    uint
	Actor     domain.Actor
	DoctorID  uint
	PatientID uint
}

// authorize checks that the caller is a party to the appointment.
func (c Caller) authorize(ap *models.Appointment) error {
	switch c.Actor {
	case domain.ActorAdmin, domain.ActorSystem:
		return nil
	case domain.ActorDoctor:
		if c.DoctorID != 0 && c.DoctorID == ap.DoctorID {
			return nil
		}
	case domain.ActorPatient:
		if c.PatientID != 0 && c.PatientID == ap.PatientID {
			return nil
		}
	}
	return domain.ErrForbidden
}

// Clock returns the current instant; tests replace it.
type Clock func() time.Time

func (c Clock) nowIn(loc *time.Location) time.Time {
	if c == nil {
		return time.Now().In(loc)
	}
	return c().In(loc)
}

// snapshot loads everything ResolveSlots needs for [from, to] in the
// doctor's timezone.
func snapshot(
	ctx context.Context,
	repo domain.Repository,
	doctor *models.Doctor,
	from time.Time,
	to time.Time,
) (domain.ResolveInput, error) {

	loc := timezone.Location(doctor.Timezone)
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	rules, err := repo.ListRules(ctx, doctor.ID)
	if err != nil {
		return domain.ResolveInput{}, err
	}

	exceptions, err := repo.ListExceptions(
		ctx,
		doctor.ID,
		first.Format(calendar.DateLayout),
		last.Format(calendar.DateLayout),
	)
	if err != nil {
		return domain.ResolveInput{}, err
	}

	appointments, err := repo.ListActiveAppointments(ctx, doctor.ID, first, last.AddDate(0, 0, 1))
	if err != nil {
		return domain.ResolveInput{}, err
	}

	return domain.ResolveInput{
		DoctorID:           doctor.ID,
		From:               first,
		To:                 last,
		Location:           loc,
		DefaultSlotMinutes: doctor.DefaultSlotMinutes,
		Rules:              rules,
		Exceptions:         exceptions,
		Appointments:       appointments,
	}, nil
}

// checkBookable resolves the doctor's slots for at's date and reports why
// at cannot be booked, if it cannot. excludeID ignores the appointment being
// moved.
func checkBookable(
	ctx context.Context,
	repo domain.Repository,
	doctor *models.Doctor,
	at time.Time,
	excludeID uint,
) error {

	at = at.In(timezone.Location(doctor.Timezone))

	in, err := snapshot(ctx, repo, doctor, at, at)
	if err != nil {
		return err
	}

	if excludeID != 0 {
		kept := in.Appointments[:0:0]
		for _, ap := range in.Appointments {
			if ap.ID != excludeID {
				kept = append(kept, ap)
			}
		}
		in.Appointments = kept
	}

	if domain.HasConflict(in.Appointments, doctor.ID, at) {
		return domain.ErrConflictingSlot
	}

	days := domain.ResolveSlots(in)
	if !domain.ContainsSlot(days, at) {
		return domain.ErrNoAvailability
	}
	return nil
}
