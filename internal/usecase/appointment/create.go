package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Caller Caller

	DoctorID  uint
	PatientID uint

	Date   string
	Time   string
	Reason string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	locker  lock.DoctorLocker
	audit   *audit.Dispatcher
	metrics *metrics.Collector
	log     *zap.Logger
	clock   Clock
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.DoctorLocker,
	audit *audit.Dispatcher,
	m *metrics.Collector,
	log *zap.Logger,
	clock Clock,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		locker:  locker,
		audit:   audit,
		metrics: m,
		log:     log,
		clock:   clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		if code := httperr.CodeOf(err); code != "" {
			uc.metrics.BookingRejections.WithLabelValues(code).Inc()
		}
		return nil, err
	}
	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Who books for whom
	// --------------------------------------------------
	switch in.Caller.Actor {
	case domain.ActorPatient:
		in.PatientID = in.Caller.PatientID
	case domain.ActorDoctor:
		in.DoctorID = in.Caller.DoctorID
	case domain.ActorAdmin:
	default:
		return nil, domain.ErrForbidden
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Date / time in the doctor's timezone
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(doctor.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	now := uc.clock.nowIn(start.Location())
	if !start.After(now) {
		return nil, ErrInThePast
	}

	// --------------------------------------------------
	// 3. Availability + conflict, serialized per doctor
	// --------------------------------------------------
	ap := &models.Appointment{
		DoctorID:  doctor.ID,
		PatientID: in.PatientID,
		DateTime:  start,
		Status:    string(domain.InitialStatus()),
		Reason:    in.Reason,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.locker.WithDoctorLock(ctx, doctor.ID, func(ctx context.Context) error {
		if err := checkBookable(ctx, uc.repo, doctor, start, 0); err != nil {
			return err
		}
		return uc.repo.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrAgendaBusy
		}
		if errors.Is(err, domain.ErrConflictingSlot) {
			uc.audit.Dispatch(audit.Event{
				ActorID:   &in.Caller.UserID,
				ActorRole: string(in.Caller.Actor),
				Action:    "appointment_conflict",
				Entity:    "appointment",
				Metadata: map[string]any{
					"doctor_id": doctor.ID,
					"date_time": start,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.metrics.AppointmentsCreated.Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.Caller.UserID,
		ActorRole: string(in.Caller.Actor),
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})
	uc.log.Info("appointment created",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("doctor_id", ap.DoctorID),
		zap.Time("date_time", ap.DateTime),
	)

	return ap, nil
}
