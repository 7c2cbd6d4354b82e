package models

import "time"

type Holiday struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Date string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Name string `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}
