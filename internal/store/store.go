package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"presentoir-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	UpdateSettings(ctx context.Context, id string, s Settings) (*model.Organization, error)

	CreateStand(ctx context.Context, stand *model.Stand) error
	GetStand(ctx context.Context, orgID, id string) (*model.Stand, error)
	FindStand(ctx context.Context, id string) (*model.Stand, error)
	ListStands(ctx context.Context, orgID string) ([]model.Stand, error)
	UpdateStand(ctx context.Context, orgID, id string, patch StandPatch) (*model.Stand, error)
	DeleteStand(ctx context.Context, orgID, id string) error

	Reserve(ctx context.Context, orgID, standID string, r Reservation) error
	CancelReservation(ctx context.Context, orgID, standID, by string) error
	ExtendReservation(ctx context.Context, orgID, standID string, until time.Time, by string) error

	AddMaintenance(ctx context.Context, rec *model.MaintenanceRecord, by string) error
	UpdateMaintenance(ctx context.Context, standID, recordID string, u MaintenanceUpdate) (*model.MaintenanceRecord, error)

	CreatePublication(ctx context.Context, p *model.Publication) error
	GetPublication(ctx context.Context, orgID, id string) (*model.Publication, error)
	ListPublications(ctx context.Context, orgID string) ([]model.Publication, error)
	SetStock(ctx context.Context, standID, publicationID string, quantity int, by string) (*model.PublicationStock, error)
	GetStock(ctx context.Context, standID, publicationID string) (*model.PublicationStock, error)

	CreatePoster(ctx context.Context, p *model.Poster) error
	GetPoster(ctx context.Context, orgID, id string) (*model.Poster, error)
	ListPosters(ctx context.Context, orgID string) ([]model.Poster, error)
	SetPosterImage(ctx context.Context, orgID, id, key string) (*model.Poster, error)
	CreatePosterRequest(ctx context.Context, r *model.PosterRequest) error
	ListPosterRequests(ctx context.Context, orgID, status string) ([]model.PosterRequest, error)
	ResolvePosterRequest(ctx context.Context, orgID, id string, approve bool, notes string) (*model.PosterRequest, error)

	ListHistory(ctx context.Context, standID string, limit int) ([]model.HistoryRecord, error)

	UpdateAlerts(ctx context.Context, orgID string, now time.Time, raised []Alert) ([]Alert, error)
	ListOpenAlerts(ctx context.Context, orgID string) ([]model.AlertOpen, error)

	PutSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForOrganization(ctx context.Context, orgID string) ([]model.PushSubscription, error)

	ImportCatalog(ctx context.Context, orgID string, c Catalog) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
