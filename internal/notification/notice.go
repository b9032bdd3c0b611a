package notification

import (
	"presentoir-backend/internal/model"
	"presentoir-backend/internal/store"
)

type Topic string

const (
	TopicMaintenance   Topic = "maintenance"
	TopicRestock       Topic = "restock"
	TopicReservation   Topic = "reservation"
	TopicPosterRequest Topic = "poster_request"
)

// EnabledFor reports whether org wants notices of this topic. Restock
// notices follow the maintenance toggle.
func (t Topic) EnabledFor(org *model.Organization) bool {
	switch t {
	case TopicMaintenance, TopicRestock:
		return org.NotifyMaintenance
	case TopicReservation:
		return org.NotifyReservations
	case TopicPosterRequest:
		return org.NotifyPosterRequests
	}
	return false
}

// Notice is the push payload delivered to browsers.
type Notice struct {
	OrganizationID string `json:"-"`
	Topic          Topic  `json:"topic"`
	StandID        string `json:"standId,omitempty"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}

func FromAlert(a store.Alert) Notice {
	n := Notice{
		OrganizationID: a.OrganizationID,
		StandID:        a.StandID,
		Body:           a.Detail,
	}
	switch a.Kind {
	case store.AlertRestock:
		n.Topic = TopicRestock
		n.Title = "Restock needed: " + a.StandName
	default:
		n.Topic = TopicMaintenance
		n.Title = a.StandName + " needs " + a.Reason + " maintenance"
	}
	return n
}
