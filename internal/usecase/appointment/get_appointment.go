package appointment

import (
	"context"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/dto"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

type GetAppointment struct {
	repo   domain.Repository
	policy domain.Policy
	clock  Clock
}

func NewGetAppointment(repo domain.Repository, policy domain.Policy, clock Clock) *GetAppointment {
	return &GetAppointment{repo: repo, policy: policy, clock: clock}
}

// Execute returns the appointment with the lead-time figures as of now.
// Business hours are informational; CanModify is what gates patient changes.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	caller Caller,
	appointmentID uint,
) (*dto.AppointmentDetailDTO, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := caller.authorize(ap); err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctor(ctx, ap.DoctorID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(doctor.Timezone)
	now := uc.clock.nowIn(loc)
	at := ap.DateTime.In(loc)
	cal := uc.policy.Calendar
	if cal == nil {
		cal = calendar.Default
	}

	out := &dto.AppointmentDetailDTO{
		ID:          ap.ID,
		DoctorID:    ap.DoctorID,
		PatientID:   ap.PatientID,
		DateTime:    at,
		Status:      ap.Status,
		Reason:      ap.Reason,
		Notes:       ap.Notes,
		ConfirmedAt: ap.ConfirmedAt,
		CancelledAt: ap.CancelledAt,
		CancelledBy: ap.CancelledBy,
		CompletedAt: ap.CompletedAt,
	}

	if domain.Status(ap.Status).IsActive() {
		out.BusinessDaysUntil = cal.CountBusinessDaysBetween(now, at)
		out.BusinessHoursUntil = cal.CountBusinessHoursBetween(now, at)
		out.CanModify = domain.CanModify(ap, now, uc.policy.MinBusinessDays, cal)
	}

	return out, nil
}
