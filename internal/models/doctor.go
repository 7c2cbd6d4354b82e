package models

import "time"

type Doctor struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialty          string `gorm:"size:100" json:"specialty"`
	DefaultSlotMinutes int    `gorm:"default:30" json:"default_slot_minutes"`
	Timezone           string `gorm:"size:64" json:"timezone"`

	Rules      []DoctorAvailabilityRule `gorm:"constraint:OnDelete:CASCADE;" json:"rules,omitempty"`
	Exceptions []AvailabilityException  `gorm:"constraint:OnDelete:CASCADE;" json:"exceptions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
