package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"presentoir-backend/internal/rules"
)

func TestStandRuleInput(t *testing.T) {
	until := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	s := Stand{
		IsReserved:    true,
		ReservedBy:    "Group A",
		ReservedUntil: &until,
		Maintenance: []MaintenanceRecord{
			{Type: "curative", Status: "pending"},
			{Type: "preventive", Status: "archived"},
		},
		Publications: []PublicationStock{
			{PublicationID: "p1", Quantity: -3, Publication: Publication{Title: "T", MinStock: 5}},
		},
	}

	in := s.RuleInput()
	assert.Equal(t, rules.PhaseReserved, in.Reservation.Phase)
	assert.Equal(t, &until, in.Reservation.Until)
	assert.Len(t, in.Maintenance, 2)
	assert.Equal(t, rules.MaintenanceCurative, in.Maintenance[0].Type)
	assert.Equal(t, []rules.StockLevel{{PublicationID: "p1", Title: "T", Quantity: 0, MinStock: 5}}, in.Stock)

	empty := Stand{}.RuleInput()
	assert.NotNil(t, empty.Maintenance)
	assert.NotNil(t, empty.Stock)
	assert.Equal(t, rules.PhaseAvailable, empty.Reservation.Phase)
}

func TestOrganizationRuleSettings(t *testing.T) {
	usage := decimal.NewFromInt(2)
	assert.Equal(t, 3, Organization{}.RuleSettings(3, usage).PreventiveIntervalMonths)
	assert.Equal(t, 6, Organization{PreventiveIntervalMonths: 6}.RuleSettings(3, usage).PreventiveIntervalMonths)
}
