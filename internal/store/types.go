package store

import (
	"time"

	"presentoir-backend/internal/model"
)

// Settings is the editable part of an organization.
type Settings struct {
	Name                     string
	Domain                   string
	BaseURL                  string
	MaxReservationDays       int
	MinAdvanceHours          int
	PreventiveIntervalMonths int
	NotifyReservations       bool
	NotifyPosterRequests     bool
	NotifyMaintenance        bool
}

// StandPatch lists stand fields to change. Nil fields are left untouched.
type StandPatch struct {
	Name          *string
	Location      *string
	CurrentPoster *string
	InstalledAt   *time.Time
	By            string
}

type Reservation struct {
	By    string
	From  time.Time
	Until *time.Time
}

// MaintenanceUpdate moves a maintenance record to a new status.
type MaintenanceUpdate struct {
	Status      string
	PerformedBy string
	Resolution  string
	CompletedAt *time.Time
}

type AlertKind string

const (
	AlertMaintenance AlertKind = "maintenance"
	AlertRestock     AlertKind = "restock"
)

// Alert is a condition raised for a stand by the periodic evaluation.
type Alert struct {
	OrganizationID string    `json:"organizationId"`
	StandID        string    `json:"standId"`
	StandName      string    `json:"standName"`
	Kind           AlertKind `json:"kind"`
	Subject        string    `json:"subject,omitempty"`
	Reason         string    `json:"reason"`
	Detail         string    `json:"detail"`
}

type alertKey struct {
	standID string
	kind    string
	subject string
}

func (a Alert) key() alertKey {
	return alertKey{a.StandID, string(a.Kind), a.Subject}
}

// Catalog is a bulk import of an organization's records. Stands carry their
// maintenance records and stock levels.
type Catalog struct {
	Stands       []model.Stand
	Posters      []model.Poster
	Publications []model.Publication
}
