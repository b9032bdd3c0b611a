package store

import (
	"context"

	"gorm.io/gorm"

	"presentoir-backend/internal/model"
)

func (s *gormStore) CreatePoster(ctx context.Context, p *model.Poster) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, "create poster")
}

func (s *gormStore) GetPoster(ctx context.Context, orgID, id string) (*model.Poster, error) {
	var p model.Poster
	if err := s.db.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&p).Error; err != nil {
		return nil, translate(err, "get poster")
	}
	return &p, nil
}

func (s *gormStore) ListPosters(ctx context.Context, orgID string) ([]model.Poster, error) {
	var posters []model.Poster
	if err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("name").Find(&posters).Error; err != nil {
		return nil, translate(err, "list posters")
	}
	return posters, nil
}

func (s *gormStore) SetPosterImage(ctx context.Context, orgID, id, key string) (*model.Poster, error) {
	res := s.db.WithContext(ctx).Model(&model.Poster{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("image_key", key)
	if res.Error != nil {
		return nil, translate(res.Error, "set poster image")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPoster(ctx, orgID, id)
}

func (s *gormStore) CreatePosterRequest(ctx context.Context, r *model.PosterRequest) error {
	if r.Status == "" {
		r.Status = model.PosterRequestPending
	}
	return translate(s.db.WithContext(ctx).Create(r).Error, "create poster request")
}

// ListPosterRequests returns an organization's requests, newest first. An
// empty status returns all of them.
func (s *gormStore) ListPosterRequests(ctx context.Context, orgID, status string) ([]model.PosterRequest, error) {
	q := s.db.WithContext(ctx).Where("stand_id IN (?)", s.db.Model(&model.Stand{}).Select("id").Where("organization_id = ?", orgID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []model.PosterRequest
	if err := q.Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, translate(err, "list poster requests")
	}
	return reqs, nil
}

// ResolvePosterRequest approves or rejects a pending request. Approval puts
// the requested poster on the stand in the same transaction.
func (s *gormStore) ResolvePosterRequest(ctx context.Context, orgID, id string, approve bool, notes string) (*model.PosterRequest, error) {
	status := model.PosterRequestRejected
	if approve {
		status = model.PosterRequestApproved
	}

	var req model.PosterRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND stand_id IN (?)", id, tx.Model(&model.Stand{}).Select("id").Where("organization_id = ?", orgID)).
			First(&req).Error
		if err != nil {
			return translate(err, "get poster request")
		}

		res := tx.Model(&model.PosterRequest{}).
			Where("id = ? AND status = ?", id, model.PosterRequestPending).
			Updates(map[string]any{"status": status, "notes": notes})
		if res.Error != nil {
			return translate(res.Error, "resolve poster request")
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		req.Status, req.Notes = status, notes

		if !approve {
			return nil
		}
		if err := tx.Model(&model.Stand{}).Where("id = ?", req.StandID).Update("current_poster", req.RequestedPoster).Error; err != nil {
			return translate(err, "apply poster")
		}
		return appendHistory(tx, req.StandID, model.HistoryPosterChange, req.RequestedBy, "poster changed to %q on request", req.RequestedPoster)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
