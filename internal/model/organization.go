package model

import (
	"time"

	"gorm.io/gorm"
)

// Organization is a tenant. Every stand, publication and poster belongs to one.
type Organization struct {
	ID      string `gorm:"primaryKey;size:36"`
	Name    string `gorm:"uniqueIndex;size:128;not null"`
	Domain  string `gorm:"size:128"`
	BaseURL string `gorm:"size:256"`

	MaxReservationDays       int `gorm:"not null"`
	MinAdvanceHours          int `gorm:"not null"`
	PreventiveIntervalMonths int `gorm:"not null"`

	NotifyReservations   bool `gorm:"not null"`
	NotifyPosterRequests bool `gorm:"not null"`
	NotifyMaintenance    bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (o *Organization) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
