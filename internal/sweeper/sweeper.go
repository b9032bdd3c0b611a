// Package sweeper periodically re-evaluates every stand and raises alerts for
// due maintenance and low stock.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"presentoir-backend/config"
	"presentoir-backend/internal/clock"
	"presentoir-backend/internal/model"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

// Store is the subset of store.Store the sweeper uses.
type Store interface {
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	ListStands(ctx context.Context, orgID string) ([]model.Stand, error)
	UpdateAlerts(ctx context.Context, orgID string, now time.Time, raised []store.Alert) ([]store.Alert, error)
}

type Dispatcher interface {
	DispatchAlert(ctx context.Context, a store.Alert) error
}

type Publisher interface {
	Publish(orgID string, ev realtime.Event)
}

// Service runs the sweep loop.
type Service struct {
	cfg        *config.Config
	store      Store
	clock      clock.Clock
	dispatcher Dispatcher
	publisher  Publisher
}

func NewService(cfg *config.Config, s Store, c clock.Clock, d Dispatcher, p Publisher) *Service {
	return &Service{cfg: cfg, store: s, clock: c, dispatcher: d, publisher: p}
}

// Run sweeps immediately and then every configured interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweeper.Enabled {
		zap.L().Info("sweeper is disabled, not starting")
		return
	}
	zap.L().Info("starting sweeper", zap.Duration("interval", s.cfg.Sweeper.Interval))

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Sweeper.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("sweeper shutting down")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Sweeper.Interval)
		}
	}
}

// SweepOnce evaluates every organization and returns the number of newly
// raised alerts. An organization that fails is logged and skipped.
func (s *Service) SweepOnce(ctx context.Context) int {
	now := s.clock.Now().UTC()

	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		zap.L().Error("sweep aborted: cannot list organizations", zap.Error(err))
		return 0
	}

	raised := 0
	for _, org := range orgs {
		n, err := s.sweepOrganization(ctx, org, now)
		if err != nil {
			zap.L().Error("sweep failed for organization", zap.String("organization_id", org.ID), zap.Error(err))
			continue
		}
		raised += n
	}
	zap.L().Info("sweep finished", zap.Int("organizations", len(orgs)), zap.Int("raised", raised))
	return raised
}

func (s *Service) sweepOrganization(ctx context.Context, org model.Organization, now time.Time) (int, error) {
	stands, err := s.store.ListStands(ctx, org.ID)
	if err != nil {
		return 0, err
	}

	settings := org.RuleSettings(s.cfg.Rules.DefaultPreventiveIntervalMonths, s.cfg.Rules.DailyUsage)
	var alerts []store.Alert
	for _, stand := range stands {
		alerts = append(alerts, Evaluate(org.ID, stand, settings, now)...)
	}

	fresh, err := s.store.UpdateAlerts(ctx, org.ID, now, alerts)
	if err != nil {
		return 0, err
	}

	for _, a := range fresh {
		if err := s.dispatcher.DispatchAlert(ctx, a); err != nil {
			zap.L().Warn("failed to dispatch alert", zap.String("stand_id", a.StandID), zap.Error(err))
		}
		s.publisher.Publish(org.ID, realtime.Event{
			Type:    realtime.AlertRaised,
			StandID: a.StandID,
			Status:  a.Reason,
			Data:    a,
			At:      now,
		})
	}
	return len(fresh), nil
}

// Evaluate returns the alerts a stand currently warrants.
func Evaluate(orgID string, stand model.Stand, settings rules.OrgRules, now time.Time) []store.Alert {
	report := rules.Evaluate(stand.RuleInput(), settings, now)
	base := store.Alert{OrganizationID: orgID, StandID: stand.ID, StandName: stand.Name}

	var alerts []store.Alert
	if report.Maintenance.Needed {
		a := base
		a.Kind = store.AlertMaintenance
		a.Reason = string(report.Maintenance.Reason)
		a.Detail = maintenanceDetail(report, now)
		alerts = append(alerts, a)
	}
	for _, f := range report.Forecasts {
		if !f.NeedsRestock() {
			continue
		}
		a := base
		a.Kind = store.AlertRestock
		a.Subject = f.PublicationID
		a.Reason = "restock"
		a.Detail = fmt.Sprintf("%s: %d left, restock point %d", f.Title, f.CurrentStock, f.RestockPoint)
		alerts = append(alerts, a)
	}
	return alerts
}

func maintenanceDetail(r rules.StandReport, now time.Time) string {
	switch {
	case r.Maintenance.Reason == rules.ReasonCurative:
		return "a reported problem is waiting for repair"
	case r.NextMaintenance.Equal(now):
		return "no preventive maintenance on record"
	default:
		return "preventive maintenance due since " + r.NextMaintenance.Format(time.DateOnly)
	}
}
