package rules

import (
	"time"

	"github.com/shopspring/decimal"
)

type StandStatus string

const (
	StatusAvailable             StandStatus = "available"
	StatusReserved              StandStatus = "reserved"
	StatusMaintenancePreventive StandStatus = "maintenance-preventive"
	StatusMaintenanceCurative   StandStatus = "maintenance-curative"
)

func (s StandStatus) InMaintenance() bool {
	return s == StatusMaintenancePreventive || s == StatusMaintenanceCurative
}

type StockLevel struct {
	PublicationID string
	Title         string
	Quantity      int
	MinStock      int
}

// StandInput is everything the rules need to know about one stand.
type StandInput struct {
	InstalledAt *time.Time
	Reservation ReservationState
	Maintenance []MaintenanceRecord
	Stock       []StockLevel
}

// OrgRules carries the per-organization tuning.
type OrgRules struct {
	PreventiveIntervalMonths int
	DailyUsage               decimal.Decimal
}

type PublicationForecast struct {
	PublicationID string `json:"publicationId"`
	Title         string `json:"title"`
	StockForecast
}

type StandReport struct {
	Status          StandStatus           `json:"status"`
	Age             AgeReport             `json:"age"`
	Maintenance     MaintenanceDue        `json:"maintenance"`
	NextMaintenance time.Time             `json:"nextMaintenance"`
	MTBFDays        int                   `json:"mtbfDays"`
	Reservation     ReservationState      `json:"reservation"`
	Forecasts       []PublicationForecast `json:"forecasts"`
	LowStock        int                   `json:"lowStock"`
}

// Evaluate derives the full report for a stand. Status priority is curative
// maintenance, then preventive maintenance, then reservation.
func Evaluate(in StandInput, cfg OrgRules, now time.Time) StandReport {
	due := EvaluateMaintenance(in.Maintenance, cfg.PreventiveIntervalMonths, now)

	status := StatusAvailable
	switch {
	case due.Reason == ReasonCurative:
		status = StatusMaintenanceCurative
	case due.Reason == ReasonPreventive:
		status = StatusMaintenancePreventive
	case in.Reservation.Phase == PhaseReserved:
		status = StatusReserved
	}

	forecasts := make([]PublicationForecast, 0, len(in.Stock))
	low := 0
	for _, s := range in.Stock {
		f := ForecastStock(s.Quantity, s.MinStock, cfg.DailyUsage, now)
		if f.NeedsRestock() {
			low++
		}
		forecasts = append(forecasts, PublicationForecast{PublicationID: s.PublicationID, Title: s.Title, StockForecast: f})
	}

	reservation := in.Reservation
	if reservation.Phase == "" {
		reservation.Phase = PhaseAvailable
	}

	return StandReport{
		Status:          status,
		Age:             ClassifyAge(in.InstalledAt, now),
		Maintenance:     due,
		NextMaintenance: NextMaintenanceDate(in.Maintenance, cfg.PreventiveIntervalMonths, now),
		MTBFDays:        MTBF(in.Maintenance),
		Reservation:     reservation,
		Forecasts:       forecasts,
		LowStock:        low,
	}
}
