package model

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceRecord is one preventive or curative intervention on a stand.
// Type and Status hold the values defined in package rules.
type MaintenanceRecord struct {
	ID          string    `gorm:"primaryKey;size:36"`
	StandID     string    `gorm:"index;size:36;not null"`
	Type        string    `gorm:"size:16;not null"`
	Status      string    `gorm:"size:16;not null"`
	Date        time.Time `gorm:"index"`
	Description string
	PerformedBy string     `gorm:"size:128"`
	Issues      string
	Resolution  string
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (m *MaintenanceRecord) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
