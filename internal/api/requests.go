package api

import (
	"time"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/parse"
	"presentoir-backend/internal/rules"
)

// validDate accepts an empty value or any layout parse.Timestamp reads.
var validDate = validation.By(func(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	}
	if raw == "" {
		return nil
	}
	if _, ok := parse.Timestamp(raw); !ok {
		return errors.New("must be a valid date")
	}
	return nil
})

func optionalDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	return parse.OptionalTimestamp(raw)
}

type createOrganizationRequest struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	BaseURL string `json:"baseUrl"`
}

func (r *createOrganizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 128)),
		validation.Field(&r.Domain, validation.Length(0, 128)),
		validation.Field(&r.BaseURL, is.URL),
	)
}

type createStandRequest struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	CurrentPoster string  `json:"currentPoster"`
	InstalledAt   *string `json:"installedAt"`
}

func (r *createStandRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Location, validation.Length(0, 256)),
		validation.Field(&r.CurrentPoster, validation.Length(0, 256)),
		validation.Field(&r.InstalledAt, validDate),
	)
}

type updateStandRequest struct {
	Name          *string `json:"name"`
	Location      *string `json:"location"`
	CurrentPoster *string `json:"currentPoster"`
	InstalledAt   *string `json:"installedAt"`
	UpdatedBy     string  `json:"updatedBy"`
}

func (r *updateStandRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 128)),
		validation.Field(&r.Location, validation.Length(0, 256)),
		validation.Field(&r.CurrentPoster, validation.Length(0, 256)),
		validation.Field(&r.InstalledAt, validDate),
	)
}

type reservationRequest struct {
	RequestedBy string  `json:"requestedBy"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (r *reservationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestedBy, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.StartDate, validation.Required, validDate),
		validation.Field(&r.EndDate, validDate),
	)
}

type extendReservationRequest struct {
	EndDate     string `json:"endDate"`
	RequestedBy string `json:"requestedBy"`
}

func (r *extendReservationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EndDate, validation.Required, validDate),
	)
}

type maintenanceRequest struct {
	Type        string `json:"type"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	Description string `json:"description"`
	PerformedBy string `json:"performedBy"`
	Issues      string `json:"issues"`
}

func (r *maintenanceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required, validation.In(
			string(rules.MaintenancePreventive), string(rules.MaintenanceCurative))),
		validation.Field(&r.Status, validation.In(maintenanceStatuses...)),
		validation.Field(&r.Date, validDate),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

type updateMaintenanceRequest struct {
	Status      string  `json:"status"`
	PerformedBy string  `json:"performedBy"`
	Resolution  string  `json:"resolution"`
	CompletedAt *string `json:"completedAt"`
}

func (r *updateMaintenanceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, validation.In(maintenanceStatuses...)),
		validation.Field(&r.CompletedAt, validDate),
	)
}

var maintenanceStatuses = []interface{}{
	string(rules.MaintenancePending),
	string(rules.MaintenanceCompleted),
	string(rules.MaintenanceRejected),
	string(rules.MaintenanceApproved),
	string(rules.MaintenanceCancelled),
}

type publicationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	IsActive    *bool  `json:"isActive"`
	MinStock    int    `json:"minStock"`
}

func (r *publicationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Category, validation.Length(0, 64)),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.MinStock, validation.Min(0)),
	)
}

type stockRequest struct {
	Quantity  int    `json:"quantity"`
	UpdatedBy string `json:"updatedBy"`
}

func (r *stockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}

type posterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (r *posterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Category, validation.Length(0, 64)),
	)
}

type posterChangeRequest struct {
	RequestedBy     string `json:"requestedBy"`
	RequestedPoster string `json:"requestedPoster"`
	Notes           string `json:"notes"`
}

func (r *posterChangeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestedBy, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.RequestedPoster, validation.Required, validation.Length(1, 256)),
	)
}

type resolvePosterRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (r *resolvePosterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, validation.In(model.PosterRequestApproved, model.PosterRequestRejected)),
	)
}

type problemReport struct {
	ReportedBy  string `json:"reportedBy"`
	Description string `json:"description"`
}

func (r *problemReport) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Description, validation.Required, validation.Length(3, 2000)),
		validation.Field(&r.ReportedBy, validation.Length(0, 128)),
	)
}

type settingsRequest struct {
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

func (r *settingsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 128)),
		validation.Field(&r.BaseURL, is.URL),
		validation.Field(&r.MaxReservationDays, validation.Required, validation.Min(1), validation.Max(90)),
		validation.Field(&r.MinAdvanceHours, validation.Min(0), validation.Max(72)),
		validation.Field(&r.PreventiveIntervalMonths, validation.Required, validation.Min(1)),
	)
}

type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

func (r *subscriptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Endpoint, validation.Required, is.URL),
		validation.Field(&r.P256DH, validation.Required),
		validation.Field(&r.Auth, validation.Required),
	)
}
