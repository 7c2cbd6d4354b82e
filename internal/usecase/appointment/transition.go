package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

type TransitionInput struct {
	Caller        Caller
	AppointmentID uint
	To            domain.Status
}

// TransitionAppointment applies confirm / cancel / complete requests.
type TransitionAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Collector
	log     *zap.Logger
	policy  domain.Policy
	clock   Clock
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.Collector,
	log *zap.Logger,
	policy domain.Policy,
	clock Clock,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		log:     log,
		policy:  policy,
		clock:   clock,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
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

	now := uc.clock.nowIn(timezone.Location(doctor.Timezone))
	if err := domain.Transition(ap, in.To, in.Caller.Actor, now, uc.policy); err != nil {
		uc.metrics.BookingRejections.WithLabelValues(httperr.CodeOf(err)).Inc()
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.metrics.AppointmentTransitions.WithLabelValues(ap.Status, string(in.Caller.Actor)).Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.Caller.UserID,
		ActorRole: string(in.Caller.Actor),
		Action:    "appointment_" + ap.Status,
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})
	uc.log.Info("appointment status changed",
		zap.Uint("appointment_id", ap.ID),
		zap.String("status", ap.Status),
		zap.String("actor", string(in.Caller.Actor)),
	)

	return ap, nil
}
