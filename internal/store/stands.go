package store

import (
	"context"

	"gorm.io/gorm"

	"presentoir-backend/internal/model"
)

func withStandDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Maintenance", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Publications.Publication")
}

func (s *gormStore) CreateStand(ctx context.Context, stand *model.Stand) error {
	return translate(s.db.WithContext(ctx).Omit("Maintenance", "Publications").Create(stand).Error, "create stand")
}

// GetStand loads a stand of orgID with its maintenance history and stock.
func (s *gormStore) GetStand(ctx context.Context, orgID, id string) (*model.Stand, error) {
	var stand model.Stand
	err := withStandDetails(s.db.WithContext(ctx)).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&stand).Error
	if err != nil {
		return nil, translate(err, "get stand")
	}
	return &stand, nil
}

// FindStand is GetStand without the organization scope, for public pages.
func (s *gormStore) FindStand(ctx context.Context, id string) (*model.Stand, error) {
	var stand model.Stand
	if err := withStandDetails(s.db.WithContext(ctx)).Where("id = ?", id).First(&stand).Error; err != nil {
		return nil, translate(err, "find stand")
	}
	return &stand, nil
}

func (s *gormStore) ListStands(ctx context.Context, orgID string) ([]model.Stand, error) {
	var stands []model.Stand
	err := withStandDetails(s.db.WithContext(ctx)).
		Where("organization_id = ?", orgID).
		Order("name").
		Find(&stands).Error
	if err != nil {
		return nil, translate(err, "list stands")
	}
	return stands, nil
}

func (s *gormStore) UpdateStand(ctx context.Context, orgID, id string, patch StandPatch) (*model.Stand, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.InstalledAt != nil {
		updates["installed_at"] = *patch.InstalledAt
	}
	if patch.CurrentPoster != nil {
		updates["current_poster"] = *patch.CurrentPoster
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&model.Stand{}).Where("id = ? AND organization_id = ?", id, orgID).Updates(updates)
			if res.Error != nil {
				return translate(res.Error, "update stand")
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			if patch.CurrentPoster != nil {
				return appendHistory(tx, id, model.HistoryPosterChange, patch.By, "poster changed to %q", *patch.CurrentPoster)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.GetStand(ctx, orgID, id)
}

// DeleteStand removes a stand and everything attached to it.
func (s *gormStore) DeleteStand(ctx context.Context, orgID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Stand{}).Where("id = ? AND organization_id = ?", id, orgID).Count(&n).Error; err != nil {
			return translate(err, "delete stand")
		}
		if n == 0 {
			return ErrNotFound
		}
		for _, m := range []any{
			&model.MaintenanceRecord{},
			&model.PublicationStock{},
			&model.PosterRequest{},
			&model.HistoryRecord{},
			&model.AlertOpen{},
		} {
			if err := tx.Where("stand_id = ?", id).Delete(m).Error; err != nil {
				return translate(err, "delete stand children")
			}
		}
		return translate(tx.Where("id = ?", id).Delete(&model.Stand{}).Error, "delete stand")
	})
}
