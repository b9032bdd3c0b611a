package model

import (
	"time"

	"gorm.io/gorm"
)

// Stand is a physical literature display.
type Stand struct {
	ID             string     `gorm:"primaryKey;size:36"`
	OrganizationID string     `gorm:"index;size:36;not null"`
	Name           string     `gorm:"size:128;not null"`
	Location       string     `gorm:"size:256"`
	CurrentPoster  string     `gorm:"size:256"`
	InstalledAt    *time.Time // nil when the installation date is unknown

	IsReserved    bool       `gorm:"index;not null"`
	ReservedBy    string     `gorm:"size:128"`
	ReservedFrom  *time.Time // start of the current reservation
	ReservedUntil *time.Time // nil while reserved means no end date

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Maintenance  []MaintenanceRecord `gorm:"foreignKey:StandID;constraint:OnDelete:CASCADE"`
	Publications []PublicationStock  `gorm:"foreignKey:StandID;constraint:OnDelete:CASCADE"`
}

func (s *Stand) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
