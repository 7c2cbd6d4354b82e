package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

type Repository interface {
	// -------- Doctor / Patient --------
	GetDoctor(
		ctx context.Context,
		doctorID uint,
	) (*models.Doctor, error)

	GetPatient(
		ctx context.Context,
		patientID uint,
	) (*models.Patient, error)

	// -------- Availability --------
	ListRules(
		ctx context.Context,
		doctorID uint,
	) ([]models.DoctorAvailabilityRule, error)

	ListExceptions(
		ctx context.Context,
		doctorID uint,
		fromDate string,
		toDate string,
	) ([]models.AvailabilityException, error)

	ListActiveAppointments(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (create / conflict) --------
	HasActiveAppointmentAt(
		ctx context.Context,
		doctorID uint,
		at time.Time,
		excludeID uint,
	) (bool, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Agenda --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Sweeps --------
	ListActiveBefore(
		ctx context.Context,
		before time.Time,
	) ([]models.Appointment, error)

	ListConfirmedWithoutReminder(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
