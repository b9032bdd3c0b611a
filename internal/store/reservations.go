package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/rules"
)

// Reserve marks an available stand as reserved. The conditional update is
// the only guard against two concurrent reservations of the same stand.
func (s *gormStore) Reserve(ctx context.Context, orgID, standID string, r Reservation) error {
	updates := map[string]any{
		"reserved_by":    r.By,
		"reserved_from":  r.From,
		"reserved_until": r.Until,
	}
	summary := "reserved by " + r.By + " with no end date"
	if r.Until != nil {
		summary = "reserved by " + r.By + " until " + r.Until.Format(time.DateOnly)
	}
	return s.transition(ctx, orgID, standID, rules.EventReserve, updates, r.By, summary)
}

func (s *gormStore) CancelReservation(ctx context.Context, orgID, standID, by string) error {
	updates := map[string]any{
		"reserved_by":    "",
		"reserved_from":  nil,
		"reserved_until": nil,
	}
	return s.transition(ctx, orgID, standID, rules.EventCancel, updates, by, "reservation cancelled")
}

// ExtendReservation moves the end of a dated reservation. Perpetual
// reservations do not match and report ErrNotReserved.
func (s *gormStore) ExtendReservation(ctx context.Context, orgID, standID string, until time.Time, by string) error {
	updates := map[string]any{"reserved_until": until}
	return s.transition(ctx, orgID, standID, rules.EventExtend, updates, by, "reservation extended until "+until.Format(time.DateOnly))
}

func (s *gormStore) transition(ctx context.Context, orgID, standID string, ev rules.ReservationEvent, updates map[string]any, by, summary string) error {
	from, err := rules.Precondition(ev)
	if err != nil {
		return err
	}
	to, err := rules.Transition(from, ev)
	if err != nil {
		return err
	}
	updates["is_reserved"] = to == rules.PhaseReserved

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Stand{}).
			Where("id = ? AND organization_id = ? AND is_reserved = ?", standID, orgID, from == rules.PhaseReserved)
		if ev == rules.EventExtend {
			q = q.Where("reserved_until IS NOT NULL")
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return translate(res.Error, string(ev)+" stand")
		}
		if res.RowsAffected == 0 {
			return conflict(tx, orgID, standID, from)
		}
		return appendHistory(tx, standID, model.HistoryReservation, by, "%s", summary)
	})
}

// conflict explains why a conditional reservation update matched no row.
func conflict(tx *gorm.DB, orgID, standID string, required rules.ReservationPhase) error {
	var n int64
	if err := tx.Model(&model.Stand{}).Where("id = ? AND organization_id = ?", standID, orgID).Count(&n).Error; err != nil {
		return translate(err, "check stand")
	}
	switch {
	case n == 0:
		return errors.Wrapf(ErrNotFound, "stand %s", standID)
	case required == rules.PhaseAvailable:
		return ErrAlreadyReserved
	default:
		return ErrNotReserved
	}
}
