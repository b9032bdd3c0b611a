package store

import (
	"context"

	"gorm.io/gorm/clause"

	"presentoir-backend/internal/model"
)

// PutSubscription creates or refreshes a push subscription by endpoint.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"organization_id", "p256dh", "auth"}),
	}).Create(sub).Error
	return translate(err, "put subscription")
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).First(&sub).Error; err != nil {
		return nil, translate(err, "get subscription")
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	res := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{})
	if res.Error != nil {
		return translate(res.Error, "delete subscription")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) SubscriptionsForOrganization(ctx context.Context, orgID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Find(&subs).Error; err != nil {
		return nil, translate(err, "list subscriptions")
	}
	return subs, nil
}
