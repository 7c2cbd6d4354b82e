package appointment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// memoryRepo is an in-memory domain.Repository. Like Postgres, it hands
// DateTime back in UTC whatever zone it was written with.
type memoryRepo struct {
	mu sync.Mutex

	doctors      map[uint]*models.Doctor
	patients     map[uint]*models.Patient
	rules        []models.DoctorAvailabilityRule
	exceptions   []models.AvailabilityException
	appointments map[uint]*models.Appointment
	nextID       uint

	updateErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		doctors:      map[uint]*models.Doctor{},
		patients:     map[uint]*models.Patient{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func (r *memoryRepo) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memoryRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) ListRules(_ context.Context, doctorID uint) ([]models.DoctorAvailabilityRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DoctorAvailabilityRule
	for _, rule := range r.rules {
		if rule.DoctorID == doctorID && rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListExceptions(_ context.Context, doctorID uint, from, to string) ([]models.AvailabilityException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilityException
	for _, e := range r.exceptions {
		if e.DoctorID == doctorID && e.Active && e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListActiveAppointments(_ context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap *models.Appointment) bool {
		return ap.DoctorID == doctorID &&
			domain.Status(ap.Status).IsActive() &&
			!ap.DateTime.Before(start) && ap.DateTime.Before(end)
	}), nil
}

func (r *memoryRepo) HasActiveAppointmentAt(_ context.Context, doctorID uint, at time.Time, excludeID uint) (bool, error) {
	found := r.filter(func(ap *models.Appointment) bool {
		return ap.DoctorID == doctorID && ap.ID != excludeID &&
			domain.Status(ap.Status).IsActive() && ap.DateTime.Equal(at)
	})
	return len(found) > 0, nil
}

func (r *memoryRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.appointments {
		if cur.DoctorID == ap.DoctorID && domain.Status(cur.Status).IsActive() && cur.DateTime.Equal(ap.DateTime) {
			return domain.ErrConflictingSlot
		}
	}
	ap.ID = r.nextID
	r.nextID++
	cp := *ap
	cp.DateTime = cp.DateTime.UTC()
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *memoryRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	cp := *ap
	return &cp, nil
}

func (r *memoryRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	cp := *ap
	cp.DateTime = cp.DateTime.UTC()
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *memoryRepo) ListAppointmentsForPeriod(_ context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap *models.Appointment) bool {
		return ap.DoctorID == doctorID && !ap.DateTime.Before(start) && ap.DateTime.Before(end)
	}), nil
}

func (r *memoryRepo) ListActiveBefore(_ context.Context, before time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap *models.Appointment) bool {
		return domain.Status(ap.Status).IsActive() && ap.DateTime.Before(before)
	}), nil
}

func (r *memoryRepo) ListConfirmedWithoutReminder(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap *models.Appointment) bool {
		return ap.Status == string(domain.StatusConfirmed) && ap.ReminderSentAt == nil &&
			!ap.DateTime.Before(from) && !ap.DateTime.After(to)
	}), nil
}

func (r *memoryRepo) filter(keep func(*models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if keep(ap) {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out
}

var _ domain.Repository = (*memoryRepo)(nil)

// ======================================================
// Fixtures
// ======================================================

const (
	doctorID      uint = 1
	otherDoctorID uint = 2
	localDoctorID uint = 3
	patientID     uint = 10
)

const saoPaulo = "America/Sao_Paulo"

// inSaoPaulo builds a wall-clock instant in the local doctor's zone.
func inSaoPaulo(t *testing.T, day, hour int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(saoPaulo)
	if err != nil {
		t.Fatalf("load %s: %v", saoPaulo, err)
	}
	return time.Date(2024, 12, day, hour, 0, 0, 0, loc)
}

// Monday 2024-12-16 08:00 UTC
var now = time.Date(2024, 12, 16, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func seededRepo() *memoryRepo {
	repo := newMemoryRepo()
	repo.doctors[doctorID] = &models.Doctor{ID: doctorID, Timezone: "UTC", DefaultSlotMinutes: 30}
	repo.doctors[otherDoctorID] = &models.Doctor{ID: otherDoctorID, Timezone: "UTC", DefaultSlotMinutes: 30}
	repo.doctors[localDoctorID] = &models.Doctor{ID: localDoctorID, Timezone: saoPaulo, DefaultSlotMinutes: 60}
	repo.patients[patientID] = &models.Patient{ID: patientID}

	for wd := 1; wd <= 5; wd++ {
		repo.rules = append(repo.rules, models.DoctorAvailabilityRule{
			ID:                  uint(wd),
			DoctorID:            doctorID,
			Weekday:             wd,
			StartTime:           "09:00",
			EndTime:             "12:00",
			SlotDurationMinutes: 30,
			Active:              true,
		})
		repo.rules = append(repo.rules, models.DoctorAvailabilityRule{
			ID:                  uint(10 + wd),
			DoctorID:            localDoctorID,
			Weekday:             wd,
			StartTime:           "09:00",
			EndTime:             "23:00",
			SlotDurationMinutes: 60,
			Active:              true,
		})
	}
	return repo
}

func (r *memoryRepo) seed(ap models.Appointment) *models.Appointment {
	if ap.DoctorID == 0 {
		ap.DoctorID = doctorID
	}
	if ap.PatientID == 0 {
		ap.PatientID = patientID
	}
	_ = r.CreateAppointment(context.Background(), &ap)
	return &ap
}

type nopSink struct{}

func (nopSink) Log(audit.Event) error { return nil }

func newAudit(t *testing.T) *audit.Dispatcher {
	d := audit.NewDispatcher(nopSink{}, zap.NewNop(), nil)
	t.Cleanup(d.Close)
	return d
}

func testPolicy() domain.Policy {
	return domain.Policy{Calendar: calendar.New(), MinBusinessDays: 2}
}

var (
	doctorCaller  = Caller{UserID: 100, Actor: domain.ActorDoctor, DoctorID: doctorID}
	patientCaller = Caller{UserID: 200, Actor: domain.ActorPatient, PatientID: patientID}
	adminCaller   = Caller{UserID: 1, Actor: domain.ActorAdmin}
	localDoctor   = Caller{UserID: 300, Actor: domain.ActorDoctor, DoctorID: localDoctorID}
)

type busyLocker struct{}

func (busyLocker) WithDoctorLock(context.Context, uint, func(context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func newMetrics() *metrics.Collector {
	return metrics.NewCollector("test")
}
