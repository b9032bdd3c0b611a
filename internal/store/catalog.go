package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presentoir-backend/internal/model"
)

// ImportCatalog upserts a bulk import into orgID in one transaction.
// Records are matched by id; existing rows of orgID are overwritten. An id
// that belongs to another organization fails the whole import with
// ErrDuplicate.
func (s *gormStore) ImportCatalog(ctx context.Context, orgID string, c Catalog) error {
	var (
		maintenance []model.MaintenanceRecord
		stocks      []model.PublicationStock
	)
	for i := range c.Stands {
		if c.Stands[i].ID == "" {
			c.Stands[i].ID = uuid.NewString()
		}
		c.Stands[i].OrganizationID = orgID
		for _, m := range c.Stands[i].Maintenance {
			m.StandID = c.Stands[i].ID
			maintenance = append(maintenance, m)
		}
		for _, p := range c.Stands[i].Publications {
			p.StandID = c.Stands[i].ID
			stocks = append(stocks, p)
		}
	}
	for i := range c.Posters {
		c.Posters[i].OrganizationID = orgID
	}
	for i := range c.Publications {
		c.Publications[i].OrganizationID = orgID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOwnership(tx, orgID, c, maintenance, stocks); err != nil {
			return err
		}
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit(clause.Associations).Session(&gorm.Session{})
		if len(c.Publications) > 0 {
			if err := upsert.Create(&c.Publications).Error; err != nil {
				return translate(err, "import publications")
			}
		}
		if len(c.Posters) > 0 {
			if err := upsert.Create(&c.Posters).Error; err != nil {
				return translate(err, "import posters")
			}
		}
		if len(c.Stands) > 0 {
			if err := upsert.Create(&c.Stands).Error; err != nil {
				return translate(err, "import stands")
			}
		}
		if len(maintenance) > 0 {
			if err := upsert.Create(&maintenance).Error; err != nil {
				return translate(err, "import maintenance")
			}
		}
		if len(stocks) > 0 {
			if err := upsert.Create(&stocks).Error; err != nil {
				return translate(err, "import stock")
			}
		}
		return nil
	})
}

// checkOwnership rejects a catalog that reuses ids of another organization's
// records. Maintenance records are owned through their stand, stock rows
// through their publication.
func checkOwnership(tx *gorm.DB, orgID string, c Catalog, maintenance []model.MaintenanceRecord, stocks []model.PublicationStock) error {
	standIDs := make([]string, 0, len(c.Stands))
	for _, st := range c.Stands {
		standIDs = append(standIDs, st.ID)
	}
	posterIDs := make([]string, 0, len(c.Posters))
	for _, p := range c.Posters {
		if p.ID != "" {
			posterIDs = append(posterIDs, p.ID)
		}
	}
	publicationIDs := make([]string, 0, len(c.Publications)+len(stocks))
	for _, p := range c.Publications {
		if p.ID != "" {
			publicationIDs = append(publicationIDs, p.ID)
		}
	}
	for _, st := range stocks {
		publicationIDs = append(publicationIDs, st.PublicationID)
	}
	recordIDs := make([]string, 0, len(maintenance))
	for _, m := range maintenance {
		if m.ID != "" {
			recordIDs = append(recordIDs, m.ID)
		}
	}

	owned := []struct {
		kind  string
		query *gorm.DB
		ids   []string
	}{
		{"stand", tx.Model(&model.Stand{}), standIDs},
		{"poster", tx.Model(&model.Poster{}), posterIDs},
		{"publication", tx.Model(&model.Publication{}), publicationIDs},
	}
	for _, o := range owned {
		if len(o.ids) == 0 {
			continue
		}
		var foreign []string
		err := o.query.Where("id IN ? AND organization_id <> ?", o.ids, orgID).Limit(1).Pluck("id", &foreign).Error
		if err != nil {
			return translate(err, "check "+o.kind+" ownership")
		}
		if len(foreign) > 0 {
			return errors.Mark(errors.Newf("%s %s belongs to another organization", o.kind, foreign[0]), ErrDuplicate)
		}
	}

	if len(recordIDs) == 0 {
		return nil
	}
	var foreign []string
	err := tx.Model(&model.MaintenanceRecord{}).
		Joins("JOIN stands ON stands.id = maintenance_records.stand_id").
		Where("maintenance_records.id IN ? AND stands.organization_id <> ?", recordIDs, orgID).
		Limit(1).
		Pluck("maintenance_records.id", &foreign).Error
	if err != nil {
		return translate(err, "check maintenance ownership")
	}
	if len(foreign) > 0 {
		return errors.Mark(errors.Newf("maintenance record %s belongs to another organization", foreign[0]), ErrDuplicate)
	}
	return nil
}
