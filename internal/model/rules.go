package model

import (
	"github.com/shopspring/decimal"

	"presentoir-backend/internal/rules"
)

// RuleInput converts a loaded stand, with its maintenance and publications
// preloaded, into the total input the rule engine expects.
func (s Stand) RuleInput() rules.StandInput {
	in := rules.StandInput{
		InstalledAt: s.InstalledAt,
		Reservation: s.Reservation(),
		Maintenance: make([]rules.MaintenanceRecord, 0, len(s.Maintenance)),
		Stock:       make([]rules.StockLevel, 0, len(s.Publications)),
	}
	for _, m := range s.Maintenance {
		in.Maintenance = append(in.Maintenance, m.RuleRecord())
	}
	for _, p := range s.Publications {
		in.Stock = append(in.Stock, rules.StockLevel{
			PublicationID: p.PublicationID,
			Title:         p.Publication.Title,
			Quantity:      max(p.Quantity, 0),
			MinStock:      max(p.Publication.MinStock, 0),
		})
	}
	return in
}

// Reservation returns the stand's reservation state.
func (s Stand) Reservation() rules.ReservationState {
	if !s.IsReserved {
		return rules.ReservationState{Phase: rules.PhaseAvailable}
	}
	return rules.ReservationState{Phase: rules.PhaseReserved, By: s.ReservedBy, Until: s.ReservedUntil}
}

func (m MaintenanceRecord) RuleRecord() rules.MaintenanceRecord {
	return rules.MaintenanceRecord{
		Type:   rules.MaintenanceType(m.Type),
		Status: rules.MaintenanceStatus(m.Status),
		Date:   m.Date,
	}
}

// RuleSettings returns the organization's rule tuning. Unset values fall
// back to the given defaults.
func (o Organization) RuleSettings(defaultIntervalMonths int, dailyUsage decimal.Decimal) rules.OrgRules {
	interval := o.PreventiveIntervalMonths
	if interval <= 0 {
		interval = defaultIntervalMonths
	}
	return rules.OrgRules{PreventiveIntervalMonths: interval, DailyUsage: dailyUsage}
}
