package model

import "time"

// AlertOpen is an alert currently raised for a stand (hot table). Subject
// distinguishes several alerts of the same kind, e.g. one restock alert per
// publication.
type AlertOpen struct {
	StandID        string    `gorm:"primaryKey;size:36"`
	Kind           string    `gorm:"primaryKey;size:32"`
	Subject        string    `gorm:"primaryKey;size:36"`
	OrganizationID string    `gorm:"index;size:36;not null"`
	Reason         string    `gorm:"size:32;not null"`
	Detail         string    `gorm:"not null"`
	RaisedAt       time.Time `gorm:"not null"`
}

// AlertHistory is a closed alert (cold table).
type AlertHistory struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	StandID        string    `gorm:"index;size:36;not null"`
	Kind           string    `gorm:"size:32;not null"`
	Subject        string    `gorm:"size:36;not null"`
	OrganizationID string    `gorm:"index;size:36;not null"`
	Reason         string    `gorm:"size:32;not null"`
	Detail         string    `gorm:"not null"`
	PeriodStart    time.Time `gorm:"not null"`
	PeriodEnd      time.Time `gorm:"index;not null"`
}
