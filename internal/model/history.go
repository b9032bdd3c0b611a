package model

import "time"

const (
	HistoryReservation  = "reservation"
	HistoryMaintenance  = "maintenance"
	HistoryPosterChange = "poster_change"
	HistoryStockUpdate  = "stock_update"
)

// HistoryRecord is an append-only audit entry for a stand.
type HistoryRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	StandID     string    `gorm:"index;size:36;not null"`
	Type        string    `gorm:"size:32;not null"`
	PerformedBy string    `gorm:"size:128"`
	Summary     string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
}
