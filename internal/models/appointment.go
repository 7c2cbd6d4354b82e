package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"index" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID uint    `gorm:"index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DateTime time.Time `gorm:"index" json:"date_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Reason string `gorm:"size:255" json:"reason"`
	Notes  string `gorm:"type:text" json:"notes"`

	ConfirmedAt    *time.Time `json:"confirmed_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CancelledBy    string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CompletedAt    *time.Time `json:"completed_at"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
