package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// LogNotifier writes reminders to the application log. It stands in until a
// mail or SMS provider is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Remind(_ context.Context, ap *models.Appointment) error {
	n.log.Info("appointment reminder",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("doctor_id", ap.DoctorID),
		zap.Uint("patient_id", ap.PatientID),
		zap.String("patient_email", ap.Patient.User.Email),
		zap.String("doctor_name", ap.Doctor.User.Name),
		zap.Time("date_time", ap.DateTime),
	)
	return nil
}
