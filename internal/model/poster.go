package model

import (
	"time"

	"gorm.io/gorm"
)

type Poster struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OrganizationID string    `gorm:"index;size:36;not null"`
	Name           string    `gorm:"size:128;not null"`
	Description    string
	Category       string    `gorm:"size:64"`
	ImageKey       string    `gorm:"size:256"` // empty until an image is uploaded
	IsActive       bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (p *Poster) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

const (
	PosterRequestPending  = "pending"
	PosterRequestApproved = "approved"
	PosterRequestRejected = "rejected"
)

// PosterRequest asks for a stand's poster to be changed.
type PosterRequest struct {
	ID              string `gorm:"primaryKey;size:36"`
	StandID         string `gorm:"index;size:36;not null"`
	RequestedBy     string `gorm:"size:128;not null"`
	RequestedPoster string `gorm:"size:256;not null"`
	Status          string `gorm:"size:16;not null"`
	Notes           string
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (r *PosterRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
