package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	DateTime    time.Time `json:"date_time"`
	Status      string    `json:"status"`
	PatientID   uint      `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Reason      string    `json:"reason"`
}

// AppointmentDetailDTO adds the lead-time figures shown to patients before
// they try to cancel or reschedule.
type AppointmentDetailDTO struct {
	ID          uint       `json:"id"`
	DoctorID    uint       `json:"doctor_id"`
	PatientID   uint       `json:"patient_id"`
	DateTime    time.Time  `json:"date_time"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason"`
	Notes       string     `json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy string     `json:"cancelled_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at"`

	BusinessDaysUntil  int  `json:"business_days_until"`
	BusinessHoursUntil int  `json:"business_hours_until"`
	CanModify          bool `json:"can_modify"`
}

type DaySlotsDTO struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
