package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
)

type CheckConflict struct {
	repo domain.Repository
}

func NewCheckConflict(repo domain.Repository) *CheckConflict {
	return &CheckConflict{repo: repo}
}

func (uc *CheckConflict) Execute(
	ctx context.Context,
	doctorID uint,
	at time.Time,
) (bool, error) {
	return uc.repo.HasActiveAppointmentAt(ctx, doctorID, at, 0)
}

// ExecuteLocal reads date ("2006-01-02") and clock ("15:04") in the doctor's
// timezone before checking.
func (uc *CheckConflict) ExecuteLocal(
	ctx context.Context,
	doctorID uint,
	date string,
	clock string,
) (bool, error) {

	doctor, err := uc.repo.GetDoctor(ctx, doctorID)
	if err != nil {
		return false, err
	}

	at, err := timezone.ParseDateTime(doctor.Timezone, date, clock)
	if err != nil {
		return false, ErrInvalidDateTime
	}

	return uc.Execute(ctx, doctor.ID, at)
}
