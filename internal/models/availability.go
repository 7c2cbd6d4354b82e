package models

import "time"

// DoctorAvailabilityRule is a weekly recurring window. Times are "15:04"
// in the doctor's timezone; Weekday follows time.Weekday (0 = Sunday).
type DoctorAvailabilityRule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index" json:"doctor_id"`

	Weekday             int    `json:"weekday"`
	StartTime           string `gorm:"size:5" json:"start_time"`
	EndTime             string `gorm:"size:5" json:"end_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	Active              bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityException overrides the recurring rules for a single date.
// StartTime/EndTime are only meaningful when IsAvailable is true.
type AvailabilityException struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index" json:"doctor_id"`

	Date        string `gorm:"size:10;index" json:"date"`
	IsAvailable bool   `json:"is_available"`
	StartTime   string `gorm:"size:5" json:"start_time,omitempty"`
	EndTime     string `gorm:"size:5" json:"end_time,omitempty"`
	Reason      string `gorm:"size:255" json:"reason"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e AvailabilityException) HasWindow() bool {
	return e.StartTime != "" && e.EndTime != ""
}
