package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"presentoir-backend/internal/model"
)

// appendHistory records an audit entry inside the caller's transaction.
func appendHistory(tx *gorm.DB, standID, kind, by, format string, args ...any) error {
	rec := model.HistoryRecord{
		StandID:     standID,
		Type:        kind,
		PerformedBy: by,
		Summary:     fmt.Sprintf(format, args...),
	}
	return translate(tx.Create(&rec).Error, "append history")
}

// ListHistory returns the newest entries first. limit <= 0 means 100.
func (s *gormStore) ListHistory(ctx context.Context, standID string, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var recs []model.HistoryRecord
	err := s.db.WithContext(ctx).
		Where("stand_id = ?", standID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, "list history")
	}
	return recs, nil
}
