package model

import (
	"time"

	"gorm.io/gorm"
)

// Publication is a title that can be placed on stands.
type Publication struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OrganizationID string    `gorm:"index;size:36;not null"`
	Title          string    `gorm:"size:256;not null"`
	Description    string
	Category       string    `gorm:"size:64"`
	ImageURL       string    `gorm:"size:512"`
	IsActive       bool      `gorm:"not null"`
	MinStock       int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (p *Publication) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PublicationStock is the quantity of a publication held on one stand.
type PublicationStock struct {
	StandID       string    `gorm:"primaryKey;size:36"`
	PublicationID string    `gorm:"primaryKey;size:36"`
	Quantity      int       `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Publication Publication `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE"`
}
