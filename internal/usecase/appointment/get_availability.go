package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
)

type GetAvailability struct {
	repo    domain.Repository
	metrics *metrics.Collector
}

func NewGetAvailability(repo domain.Repository, m *metrics.Collector) *GetAvailability {
	return &GetAvailability{repo: repo, metrics: m}
}

// Execute resolves bookable slots per date for [in.From, in.To], both dates
// read in the doctor's timezone.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.DaySlots, error) {

	start := time.Now()
	defer func() {
		uc.metrics.SlotResolveDuration.Observe(time.Since(start).Seconds())
	}()

	if in.To.Before(in.From) {
		return nil, ErrInvalidRange
	}
	if in.To.Sub(in.From) > MaxAvailabilityDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	snap, err := snapshot(ctx, uc.repo, doctor, in.From, in.To)
	if err != nil {
		return nil, err
	}

	return domain.ResolveSlots(snap), nil
}
