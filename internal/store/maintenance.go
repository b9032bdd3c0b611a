package store

import (
	"context"

	"gorm.io/gorm"

	"presentoir-backend/internal/model"
)

func (s *gormStore) AddMaintenance(ctx context.Context, rec *model.MaintenanceRecord, by string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return translate(err, "add maintenance")
		}
		return appendHistory(tx, rec.StandID, model.HistoryMaintenance, by, "%s maintenance %s", rec.Type, rec.Status)
	})
}

func (s *gormStore) UpdateMaintenance(ctx context.Context, standID, recordID string, u MaintenanceUpdate) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND stand_id = ?", recordID, standID).First(&rec).Error; err != nil {
			return translate(err, "get maintenance")
		}
		updates := map[string]any{"status": u.Status}
		if u.PerformedBy != "" {
			updates["performed_by"] = u.PerformedBy
		}
		if u.Resolution != "" {
			updates["resolution"] = u.Resolution
		}
		if u.CompletedAt != nil {
			updates["completed_at"] = *u.CompletedAt
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return translate(err, "update maintenance")
		}
		return appendHistory(tx, standID, model.HistoryMaintenance, u.PerformedBy, "%s maintenance marked %s", rec.Type, u.Status)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
