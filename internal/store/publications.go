package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presentoir-backend/internal/model"
)

func (s *gormStore) CreatePublication(ctx context.Context, p *model.Publication) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, "create publication")
}

func (s *gormStore) GetPublication(ctx context.Context, orgID, id string) (*model.Publication, error) {
	var p model.Publication
	if err := s.db.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&p).Error; err != nil {
		return nil, translate(err, "get publication")
	}
	return &p, nil
}

func (s *gormStore) ListPublications(ctx context.Context, orgID string) ([]model.Publication, error) {
	var pubs []model.Publication
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("title").Find(&pubs).Error; err != nil {
		return nil, translate(err, "list publications")
	}
	return pubs, nil
}

// SetStock upserts the quantity of a publication on a stand.
func (s *gormStore) SetStock(ctx context.Context, standID, publicationID string, quantity int, by string) (*model.PublicationStock, error) {
	stock := model.PublicationStock{StandID: standID, PublicationID: publicationID, Quantity: quantity}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("Publication").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stand_id"}, {Name: "publication_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&stock).Error
		if err != nil {
			return translate(err, "set stock")
		}
		return appendHistory(tx, standID, model.HistoryStockUpdate, by, "stock of %s set to %d", publicationID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStock(ctx, standID, publicationID)
}

func (s *gormStore) GetStock(ctx context.Context, standID, publicationID string) (*model.PublicationStock, error) {
	var stock model.PublicationStock
	err := s.db.WithContext(ctx).
		Preload("Publication").
		Where("stand_id = ? AND publication_id = ?", standID, publicationID).
		First(&stock).Error
	if err != nil {
		return nil, translate(err, "get stock")
	}
	return &stock, nil
}
