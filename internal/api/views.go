package api

import (
	"time"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/rules"
)

type maintenanceView struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Date        time.Time  `json:"date"`
	Description string     `json:"description,omitempty"`
	PerformedBy string     `json:"performedBy,omitempty"`
	Issues      string     `json:"issues,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func newMaintenanceView(m model.MaintenanceRecord) maintenanceView {
	return maintenanceView{
		ID:          m.ID,
		Type:        m.Type,
		Status:      m.Status,
		Date:        m.Date,
		Description: m.Description,
		PerformedBy: m.PerformedBy,
		Issues:      m.Issues,
		Resolution:  m.Resolution,
		CompletedAt: m.CompletedAt,
	}
}

// standView is a stand together with everything the rule engine derives
// from it.
type standView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Location      string     `json:"location"`
	CurrentPoster string     `json:"currentPoster"`
	InstalledAt   *time.Time `json:"installedAt"`
	ReservedFrom  *time.Time `json:"reservedFrom,omitempty"`
	PublicURL     string     `json:"publicUrl"`
	rules.StandReport
	MaintenanceHistory []maintenanceView `json:"maintenanceHistory"`
}

func (h *Handler) standView(s *model.Stand, report rules.StandReport) standView {
	v := standView{
		ID:                 s.ID,
		Name:               s.Name,
		Location:           s.Location,
		CurrentPoster:      s.CurrentPoster,
		InstalledAt:        s.InstalledAt,
		ReservedFrom:       s.ReservedFrom,
		PublicURL:          h.publicStandURL(s.ID),
		StandReport:        report,
		MaintenanceHistory: make([]maintenanceView, 0, len(s.Maintenance)),
	}
	for _, m := range s.Maintenance {
		v.MaintenanceHistory = append(v.MaintenanceHistory, newMaintenanceView(m))
	}
	return v
}

// publicStandURL is the address a stand's QR code points to.
func (h *Handler) publicStandURL(standID string) string {
	return h.publicURL + "/stands/" + standID
}

type publicationView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
	MinStock    int    `json:"minStock"`
}

func newPublicationView(p model.Publication) publicationView {
	return publicationView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		MinStock:    p.MinStock,
	}
}

type posterView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsActive    bool   `json:"isActive"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type posterRequestView struct {
	ID              string    `json:"id"`
	StandID         string    `json:"standId"`
	RequestedBy     string    `json:"requestedBy"`
	RequestedPoster string    `json:"requestedPoster"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newPosterRequestView(r model.PosterRequest) posterRequestView {
	return posterRequestView{
		ID:              r.ID,
		StandID:         r.StandID,
		RequestedBy:     r.RequestedBy,
		RequestedPoster: r.RequestedPoster,
		Status:          r.Status,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

type historyView struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	PerformedBy string    `json:"performedBy,omitempty"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt"`
}

type organizationView struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Domain                   string `json:"domain"`
	BaseURL                  string `json:"baseUrl"`
	MaxReservationDays       int    `json:"maxReservationDays"`
	MinAdvanceHours          int    `json:"minAdvanceHours"`
	PreventiveIntervalMonths int    `json:"preventiveIntervalMonths"`
	NotifyReservations       bool   `json:"notifyReservations"`
	NotifyPosterRequests     bool   `json:"notifyPosterRequests"`
	NotifyMaintenance        bool   `json:"notifyMaintenance"`
}

func newOrganizationView(o *model.Organization) organizationView {
	return organizationView{
		ID:                       o.ID,
		Name:                     o.Name,
		Domain:                   o.Domain,
		BaseURL:                  o.BaseURL,
		MaxReservationDays:       o.MaxReservationDays,
		MinAdvanceHours:          o.MinAdvanceHours,
		PreventiveIntervalMonths: o.PreventiveIntervalMonths,
		NotifyReservations:       o.NotifyReservations,
		NotifyPosterRequests:     o.NotifyPosterRequests,
		NotifyMaintenance:        o.NotifyMaintenance,
	}
}
