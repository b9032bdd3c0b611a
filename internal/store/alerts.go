package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presentoir-backend/internal/model"
)

// UpdateAlerts reconciles the open alerts of an organization with the alerts
// raised by the latest evaluation, and returns the ones that need a
// notification: alerts that are new or whose reason changed. Alerts that are
// no longer raised are archived.
func (s *gormStore) UpdateAlerts(ctx context.Context, orgID string, now time.Time, raised []Alert) ([]Alert, error) {
	open, err := s.fetchOpenAlerts(ctx, orgID)
	if err != nil {
		return nil, translate(err, "fetch open alerts")
	}

	var fresh []Alert
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range raised {
			k := a.key()
			old, exists := open[k]
			delete(open, k)

			if exists && old.Reason == a.Reason {
				if old.Detail != a.Detail {
					if err := tx.Model(&model.AlertOpen{}).Where(openAlertWhere, old.StandID, old.Kind, old.Subject).
						Update("detail", a.Detail).Error; err != nil {
						return translate(err, "refresh alert detail")
					}
				}
				continue
			}
			if exists {
				if err := archiveAlert(tx, old, now); err != nil {
					return err
				}
			}

			rec := model.AlertOpen{
				StandID:        a.StandID,
				Kind:           string(a.Kind),
				Subject:        a.Subject,
				OrganizationID: orgID,
				Reason:         a.Reason,
				Detail:         a.Detail,
				RaisedAt:       now,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return translate(err, "open alert")
			}
			fresh = append(fresh, a)
		}

		for _, remaining := range open {
			if err := archiveAlert(tx, remaining, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

const openAlertWhere = "stand_id = ? AND kind = ? AND subject = ?"

// archiveAlert closes an open alert into the history table.
func archiveAlert(tx *gorm.DB, rec model.AlertOpen, closedAt time.Time) error {
	hist := model.AlertHistory{
		StandID:        rec.StandID,
		Kind:           rec.Kind,
		Subject:        rec.Subject,
		OrganizationID: rec.OrganizationID,
		Reason:         rec.Reason,
		Detail:         rec.Detail,
		PeriodStart:    rec.RaisedAt,
		PeriodEnd:      closedAt,
	}
	if err := tx.Create(&hist).Error; err != nil {
		return translate(err, "archive alert")
	}
	if err := tx.Where(openAlertWhere, rec.StandID, rec.Kind, rec.Subject).Delete(&model.AlertOpen{}).Error; err != nil {
		return translate(err, "delete open alert")
	}
	return nil
}

func (s *gormStore) fetchOpenAlerts(ctx context.Context, orgID string) (map[alertKey]model.AlertOpen, error) {
	recs, err := s.ListOpenAlerts(ctx, orgID)
	if err != nil {
		return nil, err
	}
	m := make(map[alertKey]model.AlertOpen, len(recs))
	for _, r := range recs {
		m[alertKey{r.StandID, r.Kind, r.Subject}] = r
	}
	return m, nil
}

func (s *gormStore) ListOpenAlerts(ctx context.Context, orgID string) ([]model.AlertOpen, error) {
	var recs []model.AlertOpen
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("raised_at").Find(&recs).Error; err != nil {
		return nil, translate(err, "list open alerts")
	}
	return recs, nil
}
