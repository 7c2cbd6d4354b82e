package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// ======================================================
// AUTO COMPLETE
// ======================================================

// AutoCompleteSweep closes pending/confirmed appointments whose time has
// passed. Rows that fail are logged and retried on the next run.
type AutoCompleteSweep struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewAutoCompleteSweep(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.Collector,
	log *zap.Logger,
) *AutoCompleteSweep {
	return &AutoCompleteSweep{repo: repo, audit: audit, metrics: m, log: log}
}

func (uc *AutoCompleteSweep) Execute(ctx context.Context, now time.Time) (int, error) {
	apps, err := uc.repo.ListActiveBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range apps {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}

		ap := &apps[i]
		if err := domain.AutoComplete(ap, now); err != nil {
			uc.log.Warn("auto-complete skipped",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}

		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			uc.log.Error("auto-complete update failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}

		done++
		uc.metrics.AppointmentTransitions.
			WithLabelValues(string(domain.StatusCompleted), string(domain.ActorSystem)).Inc()
		uc.audit.Dispatch(audit.Event{
			ActorRole: string(domain.ActorSystem),
			Action:    "appointment_auto_completed",
			Entity:    "appointment",
			EntityID:  &ap.ID,
		})
	}

	uc.metrics.SweepProcessed.WithLabelValues("auto_complete").Add(float64(done))
	return done, nil
}

// ======================================================
// REMINDERS
// ======================================================

// Notifier delivers a reminder for an upcoming appointment.
type Notifier interface {
	Remind(ctx context.Context, ap *models.Appointment) error
}

type ReminderSweep struct {
	repo      domain.Repository
	notifier  Notifier
	metrics   *metrics.Collector
	log       *zap.Logger
	lookahead time.Duration
}

func NewReminderSweep(
	repo domain.Repository,
	notifier Notifier,
	m *metrics.Collector,
	log *zap.Logger,
	lookahead time.Duration,
) *ReminderSweep {
	return &ReminderSweep{
		repo:      repo,
		notifier:  notifier,
		metrics:   m,
		log:       log,
		lookahead: lookahead,
	}
}

func (uc *ReminderSweep) Execute(ctx context.Context, now time.Time) (int, error) {
	apps, err := uc.repo.ListConfirmedWithoutReminder(ctx, now, now.Add(uc.lookahead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range apps {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		ap := &apps[i]
		if err := uc.notifier.Remind(ctx, ap); err != nil {
			uc.log.Warn("reminder failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}

		stamp := now
		ap.ReminderSentAt = &stamp
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			uc.log.Error("reminder stamp failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	uc.metrics.SweepProcessed.WithLabelValues("reminder").Add(float64(sent))
	return sent, nil
}
