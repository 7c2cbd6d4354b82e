package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

func newReschedule(t *testing.T, repo *memoryRepo) *RescheduleAppointment {
	return NewRescheduleAppointment(
		repo, lock.NewLocalDoctorLocker(), newAudit(t), newMetrics(), zap.NewNop(), testPolicy(), fixedClock,
	)
}

func TestReschedule_MovesAndClearsReminder(t *testing.T) {
	repo := seededRepo()
	sent := now.Add(-time.Hour)
	ap := repo.seed(models.Appointment{
		DateTime:       time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		Status:         string(domain.StatusConfirmed),
		ReminderSentAt: &sent,
	})

	got, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: patientCaller, AppointmentID: ap.ID, Date: "2024-12-23", Time: "10:30",
	})
	require.NoError(t, err)

	assert.True(t, got.DateTime.Equal(time.Date(2024, 12, 23, 10, 30, 0, 0, time.UTC)))
	assert.Nil(t, got.ReminderSentAt)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
}

func TestReschedule_SameSlotIsNotAConflictWithItself(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		Status:   string(domain.StatusPending),
	})

	_, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: doctorCaller, AppointmentID: ap.ID, Date: "2024-12-20", Time: "09:00",
	})
	assert.NoError(t, err)
}

func TestReschedule_TargetTaken(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		Status:   string(domain.StatusPending),
	})
	repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 20, 9, 30, 0, 0, time.UTC),
		Status:   string(domain.StatusPending),
	})

	_, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: doctorCaller, AppointmentID: ap.ID, Date: "2024-12-20", Time: "09:30",
	})
	assert.ErrorIs(t, err, domain.ErrConflictingSlot)

	stored, _ := repo.GetAppointment(context.Background(), ap.ID)
	assert.True(t, stored.DateTime.Equal(time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)))
}

func TestReschedule_PatientLeadTime(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 17, 9, 0, 0, 0, time.UTC),
		Status:   string(domain.StatusConfirmed),
	})

	_, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: patientCaller, AppointmentID: ap.ID, Date: "2024-12-23", Time: "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrModificationWindowExpired)
}

func TestReschedule_TerminalAppointment(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		Status:   string(domain.StatusCancelled),
	})

	_, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: doctorCaller, AppointmentID: ap.ID, Date: "2024-12-23", Time: "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReschedule_NotASlot(t *testing.T) {
	repo := seededRepo()
	ap := repo.seed(models.Appointment{
		DateTime: time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		Status:   string(domain.StatusPending),
	})

	_, err := newReschedule(t, repo).Execute(context.Background(), RescheduleInput{
		Caller: doctorCaller, AppointmentID: ap.ID, Date: "2024-12-22", Time: "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrNoAvailability)
}

func TestReschedule_PatientLeadTimeCountsClinicDates(t *testing.T) {
	repo := seededRepo()
	// Wed 22:00 local is Thu 01:00Z; only Tue lies between in clinic dates
	ap := repo.seed(models.Appointment{
		DoctorID: localDoctorID,
		DateTime: inSaoPaulo(t, 18, 22),
		Status:   string(domain.StatusConfirmed),
	})
	uc := newReschedule(t, repo)

	_, err := uc.Execute(context.Background(), RescheduleInput{
		Caller: patientCaller, AppointmentID: ap.ID, Date: "2024-12-27", Time: "10:00",
	})
	assert.ErrorIs(t, err, domain.ErrModificationWindowExpired)

	got, err := uc.Execute(context.Background(), RescheduleInput{
		Caller: localDoctor, AppointmentID: ap.ID, Date: "2024-12-27", Time: "22:00",
	})
	require.NoError(t, err)
	assert.True(t, got.DateTime.Equal(inSaoPaulo(t, 27, 22)))
}
