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

type RescheduleInput struct {
	Caller        Caller
	AppointmentID uint
	Date          string
	Time          string
}

type RescheduleAppointment struct {
	repo    domain.Repository
	locker  lock.DoctorLocker
	audit   *audit.Dispatcher
	metrics *metrics.Collector
	log     *zap.Logger
	policy  domain.Policy
	clock   Clock
}

func NewRescheduleAppointment(
	repo domain.Repository,
	locker lock.DoctorLocker,
	audit *audit.Dispatcher,
	m *metrics.Collector,
	log *zap.Logger,
	policy domain.Policy,
	clock Clock,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:    repo,
		locker:  locker,
		audit:   audit,
		metrics: m,
		log:     log,
		policy:  policy,
		clock:   clock,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := in.Caller.authorize(ap); err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctor(ctx, ap.DoctorID)
	if err != nil {
		return nil, err
	}

	target, err := timezone.ParseDateTime(doctor.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	now := uc.clock.nowIn(target.Location())
	if !target.After(now) {
		return nil, ErrInThePast
	}

	previous := ap.DateTime

	err = uc.locker.WithDoctorLock(ctx, doctor.ID, func(ctx context.Context) error {
		if err := checkBookable(ctx, uc.repo, doctor, target, ap.ID); err != nil {
			return err
		}
		if err := domain.Reschedule(ap, target, in.Caller.Actor, now, uc.policy); err != nil {
			return err
		}
		return uc.repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			err = ErrAgendaBusy
		}
		if code := httperr.CodeOf(err); code != "" {
			uc.metrics.BookingRejections.WithLabelValues(code).Inc()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.Caller.UserID,
		ActorRole: string(in.Caller.Actor),
		Action:    "appointment_rescheduled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"from": previous,
			"to":   ap.DateTime,
		},
	})
	uc.log.Info("appointment rescheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.Time("from", previous),
		zap.Time("to", ap.DateTime),
	)

	return ap, nil
}
