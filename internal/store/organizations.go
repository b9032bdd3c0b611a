package store

import (
	"context"

	"presentoir-backend/internal/model"
)

func (s *gormStore) CreateOrganization(ctx context.Context, org *model.Organization) error {
	return translate(s.db.WithContext(ctx).Create(org).Error, "create organization")
}

func (s *gormStore) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get organization")
	}
	return &org, nil
}

func (s *gormStore) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := s.db.WithContext(ctx).Order("name").Find(&orgs).Error; err != nil {
		return nil, translate(err, "list organizations")
	}
	return orgs, nil
}

func (s *gormStore) UpdateSettings(ctx context.Context, id string, st Settings) (*model.Organization, error) {
	res := s.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Updates(map[string]any{
		"name":                       st.Name,
		"domain":                     st.Domain,
		"base_url":                   st.BaseURL,
		"max_reservation_days":       st.MaxReservationDays,
		"min_advance_hours":          st.MinAdvanceHours,
		"preventive_interval_months": st.PreventiveIntervalMonths,
		"notify_reservations":        st.NotifyReservations,
		"notify_poster_requests":     st.NotifyPosterRequests,
		"notify_maintenance":         st.NotifyMaintenance,
	})
	if res.Error != nil {
		return nil, translate(res.Error, "update settings")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrganization(ctx, id)
}
