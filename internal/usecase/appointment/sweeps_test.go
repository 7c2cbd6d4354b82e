package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

func TestAutoCompleteSweep(t *testing.T) {
	repo := seededRepo()
	pending := repo.seed(models.Appointment{
		DateTime: now.Add(-2 * time.Hour),
		Status:   string(domain.StatusPending),
	})
	confirmed := repo.seed(models.Appointment{
		DateTime: now.Add(-time.Hour),
		Status:   string(domain.StatusConfirmed),
	})
	cancelled := repo.seed(models.Appointment{
		DateTime: now.Add(-3 * time.Hour),
		Status:   string(domain.StatusCancelled),
	})
	upcoming := repo.seed(models.Appointment{
		DateTime: now.Add(time.Hour),
		Status:   string(domain.StatusConfirmed),
	})

	sweep := NewAutoCompleteSweep(repo, newAudit(t), newMetrics(), zap.NewNop())
	n, err := sweep.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range map[uint]domain.Status{
		pending.ID:   domain.StatusCompleted,
		confirmed.ID: domain.StatusCompleted,
		cancelled.ID: domain.StatusCancelled,
		upcoming.ID:  domain.StatusConfirmed,
	} {
		ap, _ := repo.GetAppointment(context.Background(), id)
		assert.Equal(t, string(want), ap.Status, "appointment %d", id)
	}

	n, err = sweep.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n, "sweep is idempotent")
}

func TestAutoCompleteSweep_UpdateFailureIsSkipped(t *testing.T) {
	repo := seededRepo()
	repo.seed(models.Appointment{
		DateTime: now.Add(-time.Hour),
		Status:   string(domain.StatusPending),
	})
	repo.updateErr = errors.New("db down")

	n, err := NewAutoCompleteSweep(repo, newAudit(t), newMetrics(), zap.NewNop()).
		Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type recordingNotifier struct {
	got []uint
	err error
}

func (r *recordingNotifier) Remind(_ context.Context, ap *models.Appointment) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, ap.ID)
	return nil
}

func TestReminderSweep(t *testing.T) {
	repo := seededRepo()
	due := repo.seed(models.Appointment{
		DateTime: now.Add(3 * time.Hour),
		Status:   string(domain.StatusConfirmed),
	})
	repo.seed(models.Appointment{
		DateTime: now.Add(3 * time.Hour).Add(30 * time.Minute),
		Status:   string(domain.StatusPending),
	})
	repo.seed(models.Appointment{
		DateTime: now.Add(72 * time.Hour),
		Status:   string(domain.StatusConfirmed),
	})

	notifier := &recordingNotifier{}
	sweep := NewReminderSweep(repo, notifier, newMetrics(), zap.NewNop(), 24*time.Hour)

	n, err := sweep.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{due.ID}, notifier.got)

	stored, _ := repo.GetAppointment(context.Background(), due.ID)
	require.NotNil(t, stored.ReminderSentAt)

	n, err = sweep.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n, "reminders go out once")
}

func TestReminderSweep_NotifierFailureLeavesRowUnstamped(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: now.Add(time.Hour),
		Status:   string(domain.StatusConfirmed),
	})

	sweep := NewReminderSweep(repo, &recordingNotifier{err: errors.New("smtp")}, newMetrics(), zap.NewNop(), 24*time.Hour)
	n, err := sweep.Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, _ := repo.GetAppointment(context.Background(), ap.ID)
	assert.Nil(t, stored.ReminderSentAt)
}
