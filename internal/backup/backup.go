// Package backup exports an organization's catalog to a portable JSON
// snapshot and restores it.
package backup

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/parse"
	"presentoir-backend/internal/store"
)

// Version is written into every snapshot and is the only one Restore accepts.
const Version = "1.0.0"

var ErrInvalidSnapshot = errors.New("invalid backup format")

// Source is the read side of the store used by Export.
type Source interface {
	ListStands(ctx context.Context, orgID string) ([]model.Stand, error)
	ListPosters(ctx context.Context, orgID string) ([]model.Poster, error)
	ListPublications(ctx context.Context, orgID string) ([]model.Publication, error)
}

type Importer interface {
	ImportCatalog(ctx context.Context, orgID string, c store.Catalog) error
}

// Snapshot is the on-disk backup format. Dates are kept as strings so that
// hand-edited or older files can still be restored.
type Snapshot struct {
	Version      string        `json:"version"`
	Timestamp    string        `json:"timestamp"`
	Stands       []Stand       `json:"stands"`
	Posters      []Poster      `json:"posters"`
	Publications []Publication `json:"publications"`
}

type Stand struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	CurrentPoster string        `json:"currentPoster,omitempty"`
	InstalledAt   *string       `json:"installedAt,omitempty"`
	IsReserved    bool          `json:"isReserved"`
	ReservedBy    string        `json:"reservedBy,omitempty"`
	ReservedFrom  *string       `json:"reservedFrom,omitempty"`
	ReservedUntil *string       `json:"reservedUntil,omitempty"`
	Maintenance   []Maintenance `json:"maintenanceHistory"`
	Publications  []Stock       `json:"publications"`
}

type Maintenance struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	PerformedBy string  `json:"performedBy,omitempty"`
	Issues      string  `json:"issues,omitempty"`
	Resolution  string  `json:"resolution,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

type Stock struct {
	PublicationID string `json:"publicationId"`
	Quantity      int    `json:"quantity"`
}

type Poster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageKey    string `json:"imageKey,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type Publication struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
	MinStock    int    `json:"minStock"`
}

// Filename is the suggested download name for a snapshot taken at ts.
func Filename(ts time.Time) string {
	return "presentoirs-backup-" + ts.UTC().Format("2006-01-02-15-04") + ".json"
}

// Export builds a snapshot of everything orgID owns.
func Export(ctx context.Context, src Source, orgID string, now time.Time) (*Snapshot, error) {
	stands, err := src.ListStands(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "export stands")
	}
	posters, err := src.ListPosters(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "export posters")
	}
	pubs, err := src.ListPublications(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "export publications")
	}

	snap := &Snapshot{
		Version:      Version,
		Timestamp:    now.UTC().Format(time.RFC3339Nano),
		Stands:       make([]Stand, 0, len(stands)),
		Posters:      make([]Poster, 0, len(posters)),
		Publications: make([]Publication, 0, len(pubs)),
	}
	for _, s := range stands {
		snap.Stands = append(snap.Stands, exportStand(s))
	}
	for _, p := range posters {
		snap.Posters = append(snap.Posters, Poster{
			ID: p.ID, Name: p.Name, Description: p.Description,
			Category: p.Category, ImageKey: p.ImageKey, IsActive: p.IsActive,
		})
	}
	for _, p := range pubs {
		snap.Publications = append(snap.Publications, Publication{
			ID: p.ID, Title: p.Title, Description: p.Description, Category: p.Category,
			ImageURL: p.ImageURL, IsActive: p.IsActive, MinStock: p.MinStock,
		})
	}
	return snap, nil
}

func exportStand(s model.Stand) Stand {
	out := Stand{
		ID:            s.ID,
		Name:          s.Name,
		Location:      s.Location,
		CurrentPoster: s.CurrentPoster,
		InstalledAt:   formatOptional(s.InstalledAt),
		IsReserved:    s.IsReserved,
		ReservedBy:    s.ReservedBy,
		ReservedFrom:  formatOptional(s.ReservedFrom),
		ReservedUntil: formatOptional(s.ReservedUntil),
		Maintenance:   make([]Maintenance, 0, len(s.Maintenance)),
		Publications:  make([]Stock, 0, len(s.Publications)),
	}
	for _, m := range s.Maintenance {
		var date string
		if !m.Date.IsZero() {
			date = m.Date.UTC().Format(time.RFC3339)
		}
		out.Maintenance = append(out.Maintenance, Maintenance{
			ID: m.ID, Type: m.Type, Status: m.Status, Date: date,
			Description: m.Description, PerformedBy: m.PerformedBy, Issues: m.Issues,
			Resolution: m.Resolution, CompletedAt: formatOptional(m.CompletedAt),
		})
	}
	for _, p := range s.Publications {
		out.Publications = append(out.Publications, Stock{PublicationID: p.PublicationID, Quantity: p.Quantity})
	}
	return out
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// Validate checks the snapshot header. The three collections must be present,
// even if empty.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrInvalidSnapshot
	}
	if s.Version == "" || s.Stands == nil || s.Posters == nil || s.Publications == nil {
		return errors.Wrap(ErrInvalidSnapshot, "missing version or collection")
	}
	if s.Version != Version {
		return errors.Wrapf(ErrInvalidSnapshot, "unsupported version %q", s.Version)
	}
	return nil
}

// Restore validates snap and upserts its records into orgID. Malformed dates
// are dropped rather than rejected; a maintenance record with an unreadable
// date keeps a zero date and is ignored by the rules.
func Restore(ctx context.Context, imp Importer, orgID string, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	return imp.ImportCatalog(ctx, orgID, Catalog(snap))
}

// Catalog converts a snapshot into store records.
func Catalog(snap *Snapshot) store.Catalog {
	var c store.Catalog
	for _, s := range snap.Stands {
		c.Stands = append(c.Stands, restoreStand(s))
	}
	for _, p := range snap.Posters {
		c.Posters = append(c.Posters, model.Poster{
			ID: p.ID, Name: p.Name, Description: p.Description,
			Category: p.Category, ImageKey: p.ImageKey, IsActive: p.IsActive,
		})
	}
	for _, p := range snap.Publications {
		c.Publications = append(c.Publications, model.Publication{
			ID: p.ID, Title: p.Title, Description: p.Description, Category: p.Category,
			ImageURL: p.ImageURL, IsActive: p.IsActive, MinStock: max(p.MinStock, 0),
		})
	}
	return c
}

func restoreStand(s Stand) model.Stand {
	out := model.Stand{
		ID:            s.ID,
		Name:          s.Name,
		Location:      s.Location,
		CurrentPoster: s.CurrentPoster,
		InstalledAt:   parse.OptionalTimestamp(s.InstalledAt),
		IsReserved:    s.IsReserved,
		ReservedBy:    s.ReservedBy,
		ReservedFrom:  parse.OptionalTimestamp(s.ReservedFrom),
		ReservedUntil: parse.OptionalTimestamp(s.ReservedUntil),
	}
	if !out.IsReserved {
		out.ReservedBy, out.ReservedFrom, out.ReservedUntil = "", nil, nil
	}
	for _, m := range s.Maintenance {
		date, _ := parse.Timestamp(m.Date)
		out.Maintenance = append(out.Maintenance, model.MaintenanceRecord{
			ID: m.ID, Type: m.Type, Status: m.Status, Date: date,
			Description: m.Description, PerformedBy: m.PerformedBy, Issues: m.Issues,
			Resolution: m.Resolution, CompletedAt: parse.OptionalTimestamp(m.CompletedAt),
		})
	}
	for _, p := range s.Publications {
		out.Publications = append(out.Publications, model.PublicationStock{
			PublicationID: p.PublicationID,
			Quantity:      max(p.Quantity, 0),
		})
	}
	return out
}
